package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Result classifies how an execution ended.
type Result string

const (
	ResultOK       Result = "ok"
	ResultFailed   Result = "failed"
	ResultCanceled Result = "canceled"
)

// Outcome is reported once per execution that passed validation.
type Outcome struct {
	MessageType string
	Operation   string
	Result      Result
	Elapsed     time.Duration
	Err         error
}

// Observer receives the outcome of each execution together with its message.
type Observer[T command.Message] func(ctx context.Context, msg T, outcome Outcome)

// LogObserver writes outcomes to logger: successes at debug, the rest at
// error.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, outcome Outcome) {
		args := []any{
			"command", outcome.MessageType,
			"elapsed_ms", outcome.Elapsed.Milliseconds(),
		}
		if outcome.Operation != "" {
			args = append(args, "operation", outcome.Operation)
		}
		if outcome.Result == ResultOK {
			logger.Debug("command.done", args...)
			return
		}
		logger.Error("command."+string(outcome.Result), append(args, "error", outcome.Err)...)
	}
}
