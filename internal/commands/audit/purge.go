// Package auditcmd exposes activity log maintenance as go-command handlers.
package auditcmd

import (
	"context"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const purgeActivityMessageType = "sitecms.activity.purge"

// DefaultRetention is how long entries survive the scheduled purge.
const DefaultRetention = 180 * 24 * time.Hour

// ActivityLog is the subset of activity.Service the audit commands use.
type ActivityLog interface {
	List(ctx context.Context, q listing.Query) (listing.Result[*activity.Entry], error)
	Export(ctx context.Context, q listing.Query, format string, w io.Writer) (int, error)
	Purge(ctx context.Context, before time.Time) (int, error)
}

var (
	_ command.Commander[PurgeActivityCommand]  = (*PurgeActivityHandler)(nil)
	_ command.Commander[ExportActivityCommand] = (*ExportActivityHandler)(nil)
)

// PurgeActivityCommand deletes entries older than Before, or older than
// OlderThan when Before is zero. DryRun only counts them.
type PurgeActivityCommand struct {
	Before    time.Time     `json:"before,omitempty"`
	OlderThan time.Duration `json:"older_than,omitempty"`
	DryRun    bool          `json:"dry_run,omitempty"`

	// Count receives the number of entries purged, or matched on a dry run.
	Count *int `json:"-"`
}

// Type implements command.Message.
func (PurgeActivityCommand) Type() string { return purgeActivityMessageType }

// Validate requires exactly one cutoff.
func (m PurgeActivityCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.OlderThan, validation.By(func(any) error {
			switch {
			case m.Before.IsZero() && m.OlderThan <= 0:
				return validation.NewError("sitecms.activity.purge.cutoff_required", "before or a positive older_than is required")
			case !m.Before.IsZero() && m.OlderThan != 0:
				return validation.NewError("sitecms.activity.purge.cutoff_ambiguous", "before and older_than are mutually exclusive")
			}
			return nil
		})),
	)
}

// PurgeOption customises the purge handler.
type PurgeOption func(*PurgeActivityHandler)

// PurgeWithCronExpression overrides the schedule of the retention job.
func PurgeWithCronExpression(expression string) PurgeOption {
	return func(h *PurgeActivityHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cronConfig.Expression = trimmed
		}
	}
}

// PurgeWithRetention overrides DefaultRetention for scheduled runs.
func PurgeWithRetention(retention time.Duration) PurgeOption {
	return func(h *PurgeActivityHandler) {
		if retention > 0 {
			h.retention = retention
		}
	}
}

// PurgeWithClock overrides the time source used to resolve OlderThan.
func PurgeWithClock(now func() time.Time) PurgeOption {
	return func(h *PurgeActivityHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// PurgeActivityHandler removes old activity entries. It doubles as a cron
// job enforcing the retention window.
type PurgeActivityHandler struct {
	inner      *commands.Handler[PurgeActivityCommand]
	cronConfig command.HandlerConfig
	retention  time.Duration
	now        func() time.Time
}

// NewPurgeActivityHandler constructs a handler over log.
func NewPurgeActivityHandler(log ActivityLog, logger interfaces.Logger, opts ...PurgeOption) *PurgeActivityHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	h := &PurgeActivityHandler{
		cronConfig: command.HandlerConfig{Expression: "@daily"},
		retention:  DefaultRetention,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	exec := func(ctx context.Context, msg PurgeActivityCommand) error {
		cutoff := msg.Before
		if cutoff.IsZero() {
			cutoff = h.now().Add(-msg.OlderThan)
		}
		cutoff = cutoff.UTC()
		entry := logging.WithFields(logger, map[string]any{
			"operation": "activity.purge",
			"before":    cutoff.Format(time.RFC3339),
		})

		var count int
		if msg.DryRun {
			last := cutoff.Add(-time.Nanosecond)
			q := listing.NewQuery()
			q.Limit = 1
			q.To = &last
			result, err := log.List(ctx, q)
			if err != nil {
				return err
			}
			count = result.Pagination.Total
			logging.WithFields(entry, map[string]any{"dry_run": true, "matched": count}).
				Debug("audit.command.purge.dry_run")
		} else {
			purged, err := log.Purge(ctx, cutoff)
			if err != nil {
				return err
			}
			count = purged
			logging.WithFields(entry, map[string]any{"removed": count}).
				Info("audit.command.purge.completed")
		}
		if msg.Count != nil {
			*msg.Count = count
		}
		return nil
	}

	h.inner = commands.NewHandler(exec,
		commands.WithLogger[PurgeActivityCommand](logger),
		commands.WithOperation[PurgeActivityCommand]("activity.purge"),
	)
	return h
}

// Execute satisfies command.Commander[PurgeActivityCommand].
func (h *PurgeActivityHandler) Execute(ctx context.Context, msg PurgeActivityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler purges entries outside the retention window.
func (h *PurgeActivityHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), PurgeActivityCommand{OlderThan: h.retention})
	}
}

// CronOptions returns the retention job schedule.
func (h *PurgeActivityHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the purge handler to CLI integrations.
func (h *PurgeActivityHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for activity purge.
func (h *PurgeActivityHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"activity", "purge"},
		Group:       "activity",
		Description: "Delete activity log entries older than a cutoff; supports dry-run",
	}
}
