package client_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/pkg/client"
)

func TestPollerReportsChanges(t *testing.T) {
	counts := []int{2, 2, 3}
	var calls atomic.Int32
	count := func(context.Context) (int, error) {
		i := int(calls.Add(1)) - 1
		if i == 1 {
			return 0, errors.New("temporary")
		}
		if i >= len(counts) {
			return counts[len(counts)-1], nil
		}
		return counts[i], nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := client.NewPoller(count, time.Millisecond).Run(ctx)

	want := []int{2, 3}
	for _, expected := range want {
		select {
		case got := <-updates:
			if got != expected {
				t.Fatalf("expected %d, got %d", expected, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d", expected)
		}
	}

	cancel()
	for range updates {
	}
}

func TestUnreadPollerAgainstSiteServer(t *testing.T) {
	c := newSiteServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := c.UnreadPoller(5 * time.Millisecond).Run(ctx)
	select {
	case got := <-updates:
		if got != 0 {
			t.Fatalf("expected zero unread, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for first count")
	}

	submitMessages(t, c, 1)
	select {
	case got := <-updates:
		if got != 1 {
			t.Fatalf("expected one unread after contact, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for unread change")
	}
}

func TestGuardRejectsReentry(t *testing.T) {
	var g client.Guard
	err := g.Do(func() error {
		if !g.Busy() {
			t.Fatalf("expected busy inside Do")
		}
		return g.Do(func() error { return nil })
	})
	if !errors.Is(err, client.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if g.Busy() {
		t.Fatalf("expected guard released")
	}
}
