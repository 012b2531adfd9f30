package auditcmd

import (
	"context"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const exportActivityMessageType = "sitecms.activity.export"

// ExportActivityCommand writes every entry matching Query to Output.
type ExportActivityCommand struct {
	Format string        `json:"format"`
	Query  listing.Query `json:"-"`
	Output io.Writer     `json:"-"`
	Count  *int          `json:"-"`
}

// Type implements command.Message.
func (ExportActivityCommand) Type() string { return exportActivityMessageType }

// Validate ensures the command payload is well-formed.
func (m ExportActivityCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Format, validation.By(func(any) error {
			switch strings.ToLower(strings.TrimSpace(m.Format)) {
			case activity.FormatCSV, activity.FormatJSON:
				return nil
			}
			return validation.NewError("sitecms.activity.export.format_invalid", "format must be csv or json")
		})),
		validation.Field(&m.Output, validation.By(func(any) error {
			if m.Output == nil {
				return validation.NewError("sitecms.activity.export.output_required", "output is required")
			}
			return nil
		})),
	)
}

// ExportActivityHandler streams the activity log in CSV or JSON.
type ExportActivityHandler struct {
	inner *commands.Handler[ExportActivityCommand]
}

// NewExportActivityHandler constructs a handler over log.
func NewExportActivityHandler(log ActivityLog, logger interfaces.Logger, opts ...commands.HandlerOption[ExportActivityCommand]) *ExportActivityHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportActivityCommand) error {
		count, err := log.Export(ctx, msg.Query, strings.ToLower(strings.TrimSpace(msg.Format)), msg.Output)
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"operation": "activity.export",
			"format":    msg.Format,
			"exported":  count,
		}).Info("audit.command.export.completed")
		if msg.Count != nil {
			*msg.Count = count
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportActivityCommand]{
		commands.WithLogger[ExportActivityCommand](logger),
		commands.WithOperation[ExportActivityCommand]("activity.export"),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &ExportActivityHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ExportActivityCommand].
func (h *ExportActivityHandler) Execute(ctx context.Context, msg ExportActivityCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CLIHandler exposes the export handler to CLI integrations.
func (h *ExportActivityHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for activity export.
func (h *ExportActivityHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"activity", "export"},
		Group:       "activity",
		Description: "Export activity log entries as CSV or JSON",
	}
}
