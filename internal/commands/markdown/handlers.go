// Package markdowncmd exposes markdown post imports as go-command handlers.
package markdowncmd

import (
	"context"
	"io/fs"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const importOperation = "markdown.import_posts"

var _ command.Commander[ImportPostsCommand] = (*ImportPostsHandler)(nil)

// Option customises an ImportPostsHandler.
type Option func(*options)

type options struct {
	open        func(dir string) fs.FS
	handlerOpts []commands.HandlerOption[ImportPostsCommand]
}

// WithFS replaces os.DirFS as the way a directory is opened.
func WithFS(open func(dir string) fs.FS) Option {
	return func(cfg *options) {
		if open != nil {
			cfg.open = open
		}
	}
}

// WithHandlerOptions forwards options to the wrapped command handler.
func WithHandlerOptions(opts ...commands.HandlerOption[ImportPostsCommand]) Option {
	return func(cfg *options) {
		cfg.handlerOpts = append(cfg.handlerOpts, opts...)
	}
}

// ImportPostsHandler runs markdown imports through the shared command handler.
type ImportPostsHandler struct {
	inner *commands.Handler[ImportPostsCommand]
}

// NewImportPostsHandler creates a handler bound to the post service.
func NewImportPostsHandler(service posts.Service, logger interfaces.Logger, opts ...Option) *ImportPostsHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	cfg := options{open: os.DirFS}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	exec := func(ctx context.Context, msg ImportPostsCommand) error {
		docs, err := markdown.Load(cfg.open(msg.Directory), ".")
		if err != nil {
			return err
		}
		result, err := service.ImportMarkdown(ctx, docs, posts.ImportOptions{
			Publish:       msg.Publish,
			Overwrite:     msg.Overwrite,
			DefaultAuthor: msg.DefaultAuthor,
			ActorID:       msg.ActorID,
		})
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"directory":     msg.Directory,
			"documents":     len(docs),
			"created_count": len(result.Created),
			"updated_count": len(result.Updated),
			"skipped_count": len(result.Skipped),
			"error_count":   len(result.Errors),
		}).Info("markdown.command.import_posts.completed")
		if msg.Result != nil {
			*msg.Result = result
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportPostsCommand]{
		commands.WithLogger[ImportPostsCommand](logger),
		commands.WithOperation[ImportPostsCommand](importOperation),
	}
	handlerOpts = append(handlerOpts, cfg.handlerOpts...)

	return &ImportPostsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportPostsCommand].
func (h *ImportPostsHandler) Execute(ctx context.Context, msg ImportPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}
