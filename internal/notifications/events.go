package notifications

import (
	"context"
	"sync"
)

// changeBroadcaster fans settings changes out to subscribers. Slow
// subscribers miss events rather than block writers.
type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan SettingsChange
	nextID   uint64
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{
		watchers: make(map[uint64]chan SettingsChange),
	}
}

func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan SettingsChange, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan SettingsChange)
		close(ch)
		return ch, nil
	}
	ch := make(chan SettingsChange, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Broadcast sends while holding the lock so a channel is never closed
// mid-send; sends are non-blocking.
func (b *changeBroadcaster) Broadcast(evt SettingsChange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
