// Package sitecms is the backend of a bilingual (Arabic/English) marketing
// site: blog, careers, portfolio, contact inbox, newsletter, and the admin
// API that manages them.
package sitecms

import (
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// PostService exports the blog service contract.
type PostService = posts.Service

// CareerService exports the job listing service contract.
type CareerService = careers.Service

// PortfolioService exports the projects and services contract.
type PortfolioService = portfolio.Service

// MessageService exports the contact inbox contract.
type MessageService = messages.Service

// NotificationService exports the admin notification contract.
type NotificationService = notifications.Service

// UserService exports the admin account contract.
type UserService = users.Service

// ActivityService exports the audit log contract.
type ActivityService = activity.Service

// TranslationService exports the UI string catalogue contract.
type TranslationService = translations.Service

// ContentService exports the keyed site content contract.
type ContentService = content.Service

// NewsletterService exports the subscriber list contract.
type NewsletterService = newsletter.Service

// DashboardService exports the admin summary service.
type DashboardService = *dashboard.Service

// Option customises the module's dependency container.
type Option = di.Option

// WithBunDB runs the module on db instead of opening Config.Storage.
func WithBunDB(db *bun.DB) Option {
	return di.WithBunDB(db)
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithClock sets the time source of every service.
func WithClock(now func() time.Time) Option {
	return di.WithClock(now)
}

// Module is the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Handler returns the admin and public HTTP API on one handler.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

func (m *Module) Posts() PostService {
	return m.container.PostService()
}

func (m *Module) Careers() CareerService {
	return m.container.CareerService()
}

func (m *Module) Portfolio() PortfolioService {
	return m.container.PortfolioService()
}

func (m *Module) Messages() MessageService {
	return m.container.MessageService()
}

func (m *Module) Notifications() NotificationService {
	return m.container.NotificationService()
}

func (m *Module) Users() UserService {
	return m.container.UserService()
}

func (m *Module) Activity() ActivityService {
	return m.container.ActivityService()
}

func (m *Module) Translations() TranslationService {
	return m.container.TranslationService()
}

func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

func (m *Module) Newsletter() NewsletterService {
	return m.container.NewsletterService()
}

func (m *Module) Dashboard() DashboardService {
	return m.container.DashboardService()
}

// Logger returns the root module logger.
func (m *Module) Logger() interfaces.Logger {
	return m.container.Logger()
}
