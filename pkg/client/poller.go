package client

import (
	"context"
	"time"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// DefaultPollInterval is how often a Poller asks for the unread count.
const DefaultPollInterval = 30 * time.Second

// CountFunc returns a counter such as the unread notification count.
type CountFunc func(ctx context.Context) (int, error)

// Poller polls a counter on an interval and reports changes.
type Poller struct {
	count    CountFunc
	interval time.Duration
	logger   interfaces.Logger
}

type PollerOption func(*Poller)

func PollerWithLogger(logger interfaces.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPoller polls count every interval. A non-positive interval uses
// DefaultPollInterval.
func NewPoller(count CountFunc, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{count: count, interval: interval, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// UnreadPoller polls the acting user's unread notification count.
func (c *Client) UnreadPoller(interval time.Duration, opts ...PollerOption) *Poller {
	return NewPoller(c.Notifications().UnreadCount, interval, opts...)
}

// Run polls immediately and then on every tick until ctx ends. The returned
// channel receives the first count and every later change, and is closed on
// exit. Failed polls are logged and skipped.
func (p *Poller) Run(ctx context.Context) <-chan int {
	out := make(chan int, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		last := -1
		for {
			count, err := p.count(ctx)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return
				}
				p.logger.Warn("client.poller.failed", "error", err)
			case count != last:
				select {
				case out <- count:
					last = count
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return out
}
