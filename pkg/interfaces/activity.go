package interfaces

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
)

// ActivityRecord is the go-users audit record; every admin mutation is
// reported with one.
type ActivityRecord = usertypes.ActivityRecord

// ActivitySink receives activity records emitted by services.
type ActivitySink interface {
	Log(ctx context.Context, record ActivityRecord) error
}

// ActivitySinkFunc adapts a function into an ActivitySink.
type ActivitySinkFunc func(ctx context.Context, record ActivityRecord) error

func (fn ActivitySinkFunc) Log(ctx context.Context, record ActivityRecord) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, record)
}
