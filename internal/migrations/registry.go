// Package migrations creates and evolves the sitecms schema on a bun database.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/users"
)

var (
	ErrStepInvalid   = errors.New("migrations: step requires a name and a function")
	ErrStepDuplicate = errors.New("migrations: step already registered")
)

// StepFunc applies one schema change. Steps must be idempotent.
type StepFunc func(ctx context.Context, db bun.IDB) error

// Step is a named schema change.
type Step struct {
	Name string
	Up   StepFunc
}

// Registry keeps schema steps in registration order.
type Registry struct {
	mu    sync.RWMutex
	steps []Step
	names map[string]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: map[string]struct{}{}}
}

// Register appends a step.
func (r *Registry) Register(name string, up StepFunc) error {
	name = strings.TrimSpace(name)
	if r == nil || name == "" || up == nil {
		return ErrStepInvalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrStepDuplicate, name)
	}
	r.names[name] = struct{}{}
	r.steps = append(r.steps, Step{Name: name, Up: up})
	return nil
}

// Steps returns a copy of the registered steps.
func (r *Registry) Steps() []Step {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Run applies every step in order inside a single transaction.
func (r *Registry) Run(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("migrations: database is required")
	}
	steps := r.Steps()
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, step := range steps {
			if err := step.Up(ctx, tx); err != nil {
				return fmt.Errorf("migrations: %s: %w", step.Name, err)
			}
		}
		return nil
	})
}

// Models lists every table-backed model in creation order.
func Models() []any {
	return []any{
		(*posts.Post)(nil),
		(*careers.Job)(nil),
		(*portfolio.Item)(nil),
		(*messages.Message)(nil),
		(*notifications.Notification)(nil),
		(*notifications.SettingsRecord)(nil),
		(*users.User)(nil),
		(*activity.Entry)(nil),
		(*translations.Item)(nil),
		(*content.Entry)(nil),
		(*newsletter.Subscriber)(nil),
	}
}

type index struct {
	name    string
	table   string
	columns []string
	unique  bool
}

var indexes = []index{
	{name: "idx_posts_status", table: "posts", columns: []string{"status"}},
	{name: "idx_posts_published_at", table: "posts", columns: []string{"published_at"}},
	{name: "idx_jobs_status", table: "jobs", columns: []string{"status"}},
	{name: "idx_portfolio_items_kind_status", table: "portfolio_items", columns: []string{"kind", "status"}},
	{name: "idx_messages_status", table: "messages", columns: []string{"status"}},
	{name: "idx_notifications_user_id", table: "notifications", columns: []string{"user_id"}},
	{name: "idx_user_settings_user_key", table: "user_settings", columns: []string{"user_id", "key"}, unique: true},
	{name: "idx_activity_log_occurred_at", table: "activity_log", columns: []string{"occurred_at"}},
	{name: "idx_translations_namespace_key", table: "translations", columns: []string{"namespace", "key"}, unique: true},
	{name: "idx_newsletter_subscribers_status", table: "newsletter_subscribers", columns: []string{"status"}},
}

// Default returns the registry holding the full sitecms schema.
func Default() *Registry {
	registry := NewRegistry()
	for _, model := range Models() {
		model := model
		_ = registry.Register("create_" + strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", model), "*")), func(ctx context.Context, db bun.IDB) error {
			_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
			return err
		})
	}
	for _, idx := range indexes {
		idx := idx
		_ = registry.Register(idx.name, func(ctx context.Context, db bun.IDB) error {
			query := db.NewCreateIndex().Table(idx.table).Index(idx.name).Column(idx.columns...).IfNotExists()
			if idx.unique {
				query = query.Unique()
			}
			_, err := query.Exec(ctx)
			return err
		})
	}
	return registry
}

// Migrate applies the default schema to db.
func Migrate(ctx context.Context, db *bun.DB) error {
	return Default().Run(ctx, db)
}
