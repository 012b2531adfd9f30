package client

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when an action is submitted while the same action is
// still in flight.
var ErrBusy = errors.New("client: action already in progress")

// Guard lets one call of an action run at a time. The zero value is ready.
type Guard struct {
	busy atomic.Bool
}

// Do runs fn unless another Do on the same guard is still running.
func (g *Guard) Do(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer g.busy.Store(false)
	return fn()
}

func (g *Guard) Busy() bool {
	return g.busy.Load()
}
