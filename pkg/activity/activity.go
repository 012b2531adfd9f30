// Package activity fans admin mutations out to registered hooks. Services emit
// an Event per change; hooks such as usersink forward them to storage.
package activity

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"
)

// Event describes one mutation performed by an actor.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives emitted events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function into a Hook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks is an ordered hook list.
type Hooks []Hook

// Config toggles emission and sets the default channel.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter delivers events to every hook.
type Emitter struct {
	hooks Hooks
	cfg   Config
	now   func() time.Time
}

// NewEmitter returns an emitter. It stays inert unless cfg.Enabled is set and
// at least one hook is present.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	filtered := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			filtered = append(filtered, hook)
		}
	}
	return &Emitter{hooks: filtered, cfg: cfg, now: time.Now}
}

// Enabled reports whether Emit will reach any hook.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit stamps the event and notifies every hook. Hook errors are joined;
// a failing hook does not stop the rest.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Verb) == "" {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.cfg.Channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.now().UTC()
	}
	event.Metadata = maps.Clone(event.Metadata)

	var errs []error
	for _, hook := range e.hooks {
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
