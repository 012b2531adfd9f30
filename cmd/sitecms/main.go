// Command sitecms runs the site CMS API and its maintenance tasks.
//
// Usage:
//
//	sitecms serve
//	sitecms migrate
//	sitecms import-posts -dir content/posts [-publish] [-overwrite] [-author name]
//	sitecms purge-activity [-before 2024-01-01] [-older-than 4320h] [-dry-run]
//	sitecms export-activity [-format csv|json] [-search text] [-out file]
//
// Configuration comes from SITECMS_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/commands"
	auditcmd "github.com/goliatone/go-sitecms/internal/commands/audit"
	markdowncmd "github.com/goliatone/go-sitecms/internal/commands/markdown"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const retentionInterval = 24 * time.Hour

var errUsage = errors.New("usage: sitecms <serve|migrate|import-posts|purge-activity|export-activity> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("sitecms: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cfg, err := sitecms.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	switch args[0] {
	case "serve":
		return runServe(ctx, cfg, args[1:])
	case "migrate":
		return runMigrate(ctx, cfg, args[1:], stdout)
	case "import-posts":
		return runImportPosts(ctx, cfg, args[1:], stdout)
	case "purge-activity":
		return runPurgeActivity(ctx, cfg, args[1:], stdout)
	case "export-activity":
		return runExportActivity(ctx, cfg, args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func runServe(ctx context.Context, cfg sitecms.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Server.Addr, "Address the HTTP server listens on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Server.Addr = *addr

	module, err := sitecms.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() { _ = module.Close() }()

	handler, err := module.Handler()
	if err != nil {
		return fmt.Errorf("build handler: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Retention.Activity > 0 {
		purge := auditcmd.NewPurgeActivityHandler(module.Activity(), commandLogger(module, "audit"), auditcmd.PurgeWithRetention(cfg.Retention.Activity))
		go runRetention(ctx, purge.CronHandler(), retentionInterval, module.Logger())
	}

	errCh := make(chan error, 1)
	go func() {
		module.Logger().Info("server.listening", "addr", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	module.Logger().Info("server.shutdown")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// runRetention calls purge on every tick until ctx ends.
func runRetention(ctx context.Context, purge func() error, interval time.Duration, logger interfaces.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := purge(); err != nil {
				logger.Error("activity.retention.failed", "error", err)
			}
		}
	}
}

func runMigrate(ctx context.Context, cfg sitecms.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := di.OpenDatabase(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if db == nil {
		fmt.Fprintln(stdout, "memory storage has no schema to migrate")
		return nil
	}
	defer func() { _ = db.Close() }()

	if err := sitecms.Migrate(ctx, db); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "migrated %s database\n", cfg.StorageDriver())
	return nil
}

func runImportPosts(ctx context.Context, cfg sitecms.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import-posts", flag.ContinueOnError)
	dir := fs.String("dir", "content/posts", "Directory holding <slug>.<locale>.md files")
	publish := fs.Bool("publish", false, "Publish imported posts unless front matter marks them draft")
	overwrite := fs.Bool("overwrite", false, "Update posts whose slug already exists")
	author := fs.String("author", "", "Author recorded when front matter has none")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := sitecms.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() { _ = module.Close() }()

	var result posts.ImportResult
	handler := markdowncmd.NewImportPostsHandler(module.Posts(), commandLogger(module, "markdown"))
	err = handler.Execute(ctx, markdowncmd.ImportPostsCommand{
		Directory:     *dir,
		Publish:       *publish,
		Overwrite:     *overwrite,
		DefaultAuthor: *author,
		Result:        &result,
	})
	if err != nil {
		return fmt.Errorf("import posts: %w", err)
	}

	fmt.Fprintf(stdout, "created %d, updated %d, skipped %d\n", len(result.Created), len(result.Updated), len(result.Skipped))
	for file, msg := range result.Errors {
		fmt.Fprintf(stdout, "error %s: %s\n", file, msg)
	}
	return nil
}

func runPurgeActivity(ctx context.Context, cfg sitecms.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("purge-activity", flag.ContinueOnError)
	before := fs.String("before", "", "Delete entries older than this date (YYYY-MM-DD or RFC3339)")
	olderThan := fs.Duration("older-than", cfg.Retention.Activity, "Delete entries older than this age when -before is empty")
	dryRun := fs.Bool("dry-run", false, "Count matching entries without deleting them")
	if err := fs.Parse(args); err != nil {
		return err
	}

	msg := auditcmd.PurgeActivityCommand{DryRun: *dryRun}
	if strings.TrimSpace(*before) != "" {
		cutoff, err := parseDate(*before)
		if err != nil {
			return fmt.Errorf("parse before: %w", err)
		}
		msg.Before = cutoff
	} else {
		msg.OlderThan = *olderThan
	}

	module, err := sitecms.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() { _ = module.Close() }()

	var count int
	msg.Count = &count
	handler := auditcmd.NewPurgeActivityHandler(module.Activity(), commandLogger(module, "audit"), auditcmd.PurgeWithRetention(cfg.Retention.Activity))
	if err := handler.Execute(ctx, msg); err != nil {
		return fmt.Errorf("purge activity: %w", err)
	}

	if *dryRun {
		fmt.Fprintf(stdout, "%d activity entries would be purged\n", count)
		return nil
	}
	fmt.Fprintf(stdout, "purged %d activity entries\n", count)
	return nil
}

func runExportActivity(ctx context.Context, cfg sitecms.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export-activity", flag.ContinueOnError)
	format := fs.String("format", "csv", "Export format: csv or json")
	search := fs.String("search", "", "Only export entries matching this text")
	out := fs.String("out", "", "Write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := sitecms.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer func() { _ = module.Close() }()

	w := stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}

	query := listing.NewQuery()
	query.Search = strings.TrimSpace(*search)
	handler := auditcmd.NewExportActivityHandler(module.Activity(), commandLogger(module, "audit"))
	return handler.Execute(ctx, auditcmd.ExportActivityCommand{
		Format: *format,
		Query:  query,
		Output: w,
	})
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, value)
}

func commandLogger(module *sitecms.Module, group string) interfaces.Logger {
	return commands.CommandLogger(module.Container().LoggerProvider(), group)
}
