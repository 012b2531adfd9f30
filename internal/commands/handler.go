// Package commands runs admin mutations through go-command handlers so that
// validation, timeouts, logging, and error categories are applied uniformly.
package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// DefaultTimeout bounds every command unless WithTimeout overrides it.
const DefaultTimeout = 30 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a command function and satisfies command.Commander[T].
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	observer  Observer[T]
	now       func() time.Time
}

// NewHandler builds a handler around fn.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.observer == nil {
		h.observer = LogObserver[T](h.logger)
	}
	return h
}

// Execute validates msg, applies the timeout, and runs the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	started := h.now()
	err := h.exec(ctx, msg)
	outcome := Outcome{
		MessageType: command.GetMessageType(msg),
		Operation:   h.operation,
		Result:      ResultOK,
	}
	switch {
	case err != nil && ctx.Err() != nil:
		outcome.Result = ResultCanceled
		err = wrapContextError(ctx.Err())
	case err != nil:
		outcome.Result = ResultFailed
		err = wrapExecuteError(err)
	case ctx.Err() != nil:
		outcome.Result = ResultCanceled
		err = wrapContextError(ctx.Err())
	}
	outcome.Elapsed = h.now().Sub(started)
	outcome.Err = err

	h.observer(ctx, msg, outcome)
	return err
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger == nil {
			logger = logging.NoOp()
		}
		h.logger = logger
	}
}

// WithOperation names the operation reported to the observer.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithObserver replaces LogObserver.
func WithObserver[T command.Message](observer Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.observer = observer
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
