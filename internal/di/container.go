package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	sitehttp "github.com/goliatone/go-sitecms/internal/http"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/logging/console"
	"github.com/goliatone/go-sitecms/internal/logging/gologger"
	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/migrations"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/internal/portfolio"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/internal/translations"
	"github.com/goliatone/go-sitecms/internal/urls"
	"github.com/goliatone/go-sitecms/internal/users"
	events "github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Container wires repositories, services, and HTTP adapters. Without a
// database every repository is in memory.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	now            func() time.Time

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	postRepo         posts.Repository
	jobRepo          careers.Repository
	portfolioRepo    portfolio.Repository
	messageRepo      messages.Repository
	notificationRepo notifications.Repository
	settingsRepo     notifications.SettingsRepository
	userRepo         users.Repository
	activityRepo     activity.Repository
	translationRepo  translations.Repository
	contentRepo      content.Repository
	newsletterRepo   newsletter.Repository

	resolver *urls.Resolver
	renderer *markdown.Renderer
	emitter  *events.Emitter

	activitySvc     activity.Service
	notificationSvc notifications.Service
	postSvc         posts.Service
	careerSvc       careers.Service
	portfolioSvc    portfolio.Service
	messageSvc      messages.Service
	userSvc         users.Service
	translationSvc  translations.Service
	contentSvc      content.Service
	newsletterSvc   newsletter.Service

	dashboardSvc *dashboard.Service
	bulk         *commands.Bulk
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an open database. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used with bun repositories.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithClock sets the time source handed to every service.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithURLResolver overrides the resolver built from Config.Site.
func WithURLResolver(resolver *urls.Resolver) Option {
	return func(c *Container) {
		c.resolver = resolver
	}
}

func WithActivityService(svc activity.Service) Option {
	return func(c *Container) {
		c.activitySvc = svc
	}
}

func WithNotificationService(svc notifications.Service) Option {
	return func(c *Container) {
		c.notificationSvc = svc
	}
}

func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

func WithMessageService(svc messages.Service) Option {
	return func(c *Container) {
		c.messageSvc = svc
	}
}

func WithUserService(svc users.Service) Option {
	return func(c *Container) {
		c.userSvc = svc
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:           cfg,
		now:              time.Now,
		cacheTTL:         cfg.Cache.TTL,
		postRepo:         posts.NewMemoryRepository(),
		jobRepo:          careers.NewMemoryRepository(),
		portfolioRepo:    portfolio.NewMemoryRepository(),
		messageRepo:      messages.NewMemoryRepository(),
		notificationRepo: notifications.NewMemoryRepository(),
		settingsRepo:     notifications.NewMemorySettingsRepository(),
		userRepo:         users.NewMemoryRepository(),
		activityRepo:     activity.NewMemoryRepository(),
		translationRepo:  translations.NewMemoryRepository(),
		contentRepo:      content.NewMemoryRepository(),
		newsletterRepo:   newsletter.NewMemoryRepository(),
	}
	if c.cacheTTL <= 0 {
		c.cacheTTL = time.Minute
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureRendering()
	if err := c.configureServices(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.configureCommands()

	c.logger.Info("container.ready",
		"storage", c.storageDriver(),
		"cache", c.cacheService != nil,
		"default_locale", c.Config.DefaultLocale,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case runtimeconfig.LoggerGoLogger:
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
				Focus:     c.Config.Logging.Focus,
			})
			if err != nil {
				return fmt.Errorf("di: logger provider: %w", err)
			}
			c.loggerProvider = provider
		default:
			options := console.Options{}
			if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
				options.MinLevel = &level
			}
			c.loggerProvider = console.NewProvider(options)
		}
	}
	c.logger = logging.RootLogger(c.loggerProvider)
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil {
		return nil
	}
	driver := c.Config.StorageDriver()
	if driver == runtimeconfig.DriverMemory {
		return nil
	}

	ctx := context.Background()
	db, err := OpenDatabase(ctx, c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true

	if c.Config.Storage.AutoMigrate {
		if err := migrations.Migrate(ctx, db); err != nil {
			_ = c.Close()
			return fmt.Errorf("di: migrate: %w", err)
		}
		c.logger.Debug("container.migrated", "driver", driver)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("container.cache_disabled", "error", err)
			return
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	if c.cacheService != nil {
		c.postRepo = posts.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.jobRepo = careers.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.portfolioRepo = portfolio.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.messageRepo = messages.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.notificationRepo = notifications.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.userRepo = users.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.translationRepo = translations.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.contentRepo = content.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.newsletterRepo = newsletter.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.postRepo = posts.NewBunRepository(c.bunDB)
		c.jobRepo = careers.NewBunRepository(c.bunDB)
		c.portfolioRepo = portfolio.NewBunRepository(c.bunDB)
		c.messageRepo = messages.NewBunRepository(c.bunDB)
		c.notificationRepo = notifications.NewBunRepository(c.bunDB)
		c.userRepo = users.NewBunRepository(c.bunDB)
		c.translationRepo = translations.NewBunRepository(c.bunDB)
		c.contentRepo = content.NewBunRepository(c.bunDB)
		c.newsletterRepo = newsletter.NewBunRepository(c.bunDB)
	}

	// Activity entries bypass the cache.
	c.activityRepo = activity.NewBunRepository(c.bunDB)
	c.settingsRepo = notifications.NewBunSettingsRepository(c.bunDB)
}

func (c *Container) configureRendering() {
	if c.resolver == nil {
		c.resolver = urls.NewResolver(urls.DefaultConfig(c.Config.Site.BaseURL))
	}
	if c.renderer == nil {
		c.renderer = markdown.NewRenderer(markdown.Options{
			Sanitize:  c.Config.Markdown.Sanitize,
			HardWraps: c.Config.Markdown.HardWraps,
		})
	}
}

func (c *Container) moduleLogger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

func (c *Container) configureServices() error {
	if c.activitySvc == nil {
		c.activitySvc = activity.NewService(c.activityRepo,
			activity.WithClock(c.now),
			activity.WithLogger(c.moduleLogger(logging.ModuleActivity)),
		)
	}
	c.emitter = activity.NewEmitter(c.activitySvc)

	if c.notificationSvc == nil {
		c.notificationSvc = notifications.NewService(c.notificationRepo,
			notifications.WithClock(c.now),
			notifications.WithLogger(c.moduleLogger(logging.ModuleNotifications)),
			notifications.WithSettingsRepository(c.settingsRepo),
		)
	}

	if c.postSvc == nil {
		c.postSvc = posts.NewService(c.postRepo,
			posts.WithClock(c.now),
			posts.WithLogger(c.moduleLogger(logging.ModulePosts)),
			posts.WithActivityEmitter(c.emitter),
			posts.WithRenderer(c.renderer),
			posts.WithURLResolver(c.resolver),
			posts.WithWordsPerMinute(c.Config.Markdown.WordsPerMinute),
		)
	}

	c.careerSvc = careers.NewService(c.jobRepo,
		careers.WithClock(c.now),
		careers.WithLogger(c.moduleLogger(logging.ModuleCareers)),
		careers.WithActivityEmitter(c.emitter),
	)
	c.portfolioSvc = portfolio.NewService(c.portfolioRepo,
		portfolio.WithClock(c.now),
		portfolio.WithLogger(c.moduleLogger(logging.ModulePortfolio)),
		portfolio.WithActivityEmitter(c.emitter),
	)

	if c.messageSvc == nil {
		c.messageSvc = messages.NewService(c.messageRepo,
			messages.WithClock(c.now),
			messages.WithLogger(c.moduleLogger(logging.ModuleMessages)),
			messages.WithActivityEmitter(c.emitter),
			messages.WithNotifier(c.notificationSvc),
		)
	}

	if c.userSvc == nil {
		c.userSvc = users.NewService(c.userRepo,
			users.WithClock(c.now),
			users.WithLogger(c.moduleLogger(logging.ModuleUsers)),
			users.WithActivityEmitter(c.emitter),
		)
	}

	c.translationSvc = translations.NewService(c.translationRepo,
		translations.WithClock(c.now),
		translations.WithLogger(c.moduleLogger(logging.ModuleTranslations)),
		translations.WithActivityEmitter(c.emitter),
		translations.WithDefaultLocale(shared.ParseLocale(c.Config.DefaultLocale)),
	)

	contentSvc, err := content.NewService(c.contentRepo,
		content.WithClock(c.now),
		content.WithLogger(c.moduleLogger(logging.ModuleContent)),
		content.WithActivityEmitter(c.emitter),
	)
	if err != nil {
		return fmt.Errorf("di: content service: %w", err)
	}
	c.contentSvc = contentSvc

	c.newsletterSvc = newsletter.NewService(c.newsletterRepo,
		newsletter.WithClock(c.now),
		newsletter.WithLogger(c.moduleLogger(logging.ModuleNewsletter)),
		newsletter.WithActivityEmitter(c.emitter),
	)

	c.dashboardSvc = dashboard.NewService(dashboard.Sources{
		Posts:         c.postSvc,
		Messages:      c.messageSvc,
		Jobs:          c.careerSvc,
		Newsletter:    c.newsletterSvc,
		Notifications: c.notificationSvc,
		Activity:      c.activitySvc,
	},
		dashboard.WithClock(c.now),
		dashboard.WithLogger(c.moduleLogger(logging.ModuleDashboard)),
	)
	return nil
}

func (c *Container) configureCommands() {
	c.bulk = commands.NewBulk(commands.CommandLogger(c.loggerProvider, "bulk"))
	c.bulk.Register(sitehttp.ResourcePosts, c.postSvc)
	c.bulk.Register(sitehttp.ResourceJobs, c.careerSvc)
	c.bulk.Register(sitehttp.ResourcePortfolio, c.portfolioSvc)
	c.bulk.Register(sitehttp.ResourceMessages, c.messageSvc)
	c.bulk.Register(sitehttp.ResourceNotifications, c.notificationSvc)
	c.bulk.Register(sitehttp.ResourceUsers, c.userSvc)
	c.bulk.Register(sitehttp.ResourceNewsletter, c.newsletterSvc)
}

func (c *Container) storageDriver() string {
	if c.bunDB != nil && c.Config.StorageDriver() == runtimeconfig.DriverMemory {
		return "external"
	}
	return c.Config.StorageDriver()
}

// AdminAPI builds the admin route set over the container's services.
func (c *Container) AdminAPI() *sitehttp.AdminAPI {
	return sitehttp.NewAdminAPI(
		sitehttp.WithBasePath(c.Config.Server.AdminPrefix),
		sitehttp.WithPostService(c.postSvc),
		sitehttp.WithCareerService(c.careerSvc),
		sitehttp.WithPortfolioService(c.portfolioSvc),
		sitehttp.WithMessageService(c.messageSvc),
		sitehttp.WithNotificationService(c.notificationSvc),
		sitehttp.WithUserService(c.userSvc),
		sitehttp.WithActivityService(c.activitySvc),
		sitehttp.WithTranslationService(c.translationSvc),
		sitehttp.WithContentService(c.contentSvc),
		sitehttp.WithNewsletterService(c.newsletterSvc),
		sitehttp.WithDashboard(c.dashboardSvc),
		sitehttp.WithBulk(c.bulk),
	)
}

// PublicAPI builds the public route set over the container's services.
func (c *Container) PublicAPI() *sitehttp.PublicAPI {
	return sitehttp.NewPublicAPI(
		sitehttp.WithPublicBasePath(c.Config.Server.PublicPrefix),
		sitehttp.WithPublicServices(c.postSvc, c.careerSvc, c.portfolioSvc, c.messageSvc, c.newsletterSvc, c.translationSvc, c.contentSvc),
		sitehttp.WithURLResolver(c.resolver),
	)
}

// Handler mounts both route sets on one mux behind the request-info and
// access-log middleware.
func (c *Container) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := c.AdminAPI().Register(mux); err != nil {
		return nil, fmt.Errorf("di: admin routes: %w", err)
	}
	if err := c.PublicAPI().Register(mux); err != nil {
		return nil, fmt.Errorf("di: public routes: %w", err)
	}
	return sitehttp.WithRequestInfo(sitehttp.WithAccessLog(c.moduleLogger(logging.ModuleHTTP), mux)), nil
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	return err
}

// LoggerProvider exposes the provider module loggers come from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// DB returns the database, or nil when running in memory.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) URLResolver() *urls.Resolver {
	return c.resolver
}

func (c *Container) Renderer() *markdown.Renderer {
	return c.renderer
}

// Bulk exposes the bulk-action command handlers.
func (c *Container) Bulk() *commands.Bulk {
	return c.bulk
}

func (c *Container) ActivityService() activity.Service {
	return c.activitySvc
}

func (c *Container) NotificationService() notifications.Service {
	return c.notificationSvc
}

// NotificationSettings exposes the per-user preference store.
func (c *Container) NotificationSettings() notifications.SettingsRepository {
	return c.settingsRepo
}

func (c *Container) PostService() posts.Service {
	return c.postSvc
}

func (c *Container) CareerService() careers.Service {
	return c.careerSvc
}

func (c *Container) PortfolioService() portfolio.Service {
	return c.portfolioSvc
}

func (c *Container) MessageService() messages.Service {
	return c.messageSvc
}

func (c *Container) UserService() users.Service {
	return c.userSvc
}

func (c *Container) TranslationService() translations.Service {
	return c.translationSvc
}

func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

func (c *Container) NewsletterService() newsletter.Service {
	return c.newsletterSvc
}

func (c *Container) DashboardService() *dashboard.Service {
	return c.dashboardSvc
}
