package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	ErrServerAddrRequired     = errors.New("sitecms config: server address is required")
	ErrDefaultLocaleInvalid   = errors.New("sitecms config: default locale must be ar or en")
	ErrStorageDriverUnknown   = errors.New("sitecms config: storage driver is invalid")
	ErrStorageDSNRequired     = errors.New("sitecms config: storage dsn is required for sql drivers")
	ErrCacheTTLInvalid        = errors.New("sitecms config: cache ttl must be positive when cache is enabled")
	ErrLoggingProviderUnknown = errors.New("sitecms config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("sitecms config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("sitecms config: logging format is invalid")
	ErrSiteBaseURLInvalid     = errors.New("sitecms config: site base url must be absolute")
	ErrReadingRateInvalid     = errors.New("sitecms config: words per minute must be positive")
	ErrRetentionInvalid       = errors.New("sitecms config: activity retention cannot be negative")
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Logging providers.
const (
	LoggerConsole  = "console"
	LoggerGoLogger = "gologger"
)

// Config aggregates everything needed to boot a sitecms instance. Every field
// can be overridden from the environment with FromEnv.
type Config struct {
	DefaultLocale string `env:"SITECMS_DEFAULT_LOCALE"`
	Server        ServerConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Site          SiteConfig
	Markdown      MarkdownConfig
	Retention     RetentionConfig
}

// ServerConfig controls the HTTP listener and route prefixes.
type ServerConfig struct {
	Addr            string        `env:"SITECMS_ADDR"`
	AdminPrefix     string        `env:"SITECMS_ADMIN_PREFIX"`
	PublicPrefix    string        `env:"SITECMS_PUBLIC_PREFIX"`
	ReadTimeout     time.Duration `env:"SITECMS_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"SITECMS_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SITECMS_SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the persistence backend. The memory driver keeps
// everything in process.
type StorageConfig struct {
	Driver string `env:"SITECMS_STORAGE_DRIVER"`
	DSN    string `env:"SITECMS_STORAGE_DSN"`

	// AutoMigrate creates missing tables when the container opens the database.
	AutoMigrate bool `env:"SITECMS_STORAGE_AUTO_MIGRATE"`
}

// CacheConfig toggles the read-through repository cache.
type CacheConfig struct {
	Enabled bool          `env:"SITECMS_CACHE_ENABLED"`
	TTL     time.Duration `env:"SITECMS_CACHE_TTL"`
}

// LoggingConfig selects the logger provider and its options.
type LoggingConfig struct {
	Provider  string   `env:"SITECMS_LOG_PROVIDER"`
	Level     string   `env:"SITECMS_LOG_LEVEL"`
	Format    string   `env:"SITECMS_LOG_FORMAT"`
	AddSource bool     `env:"SITECMS_LOG_ADD_SOURCE"`
	Focus     []string `env:"SITECMS_LOG_FOCUS" envSeparator:","`
}

// SiteConfig describes the public site the CMS feeds.
type SiteConfig struct {
	BaseURL string `env:"SITECMS_SITE_BASE_URL"`
	Name    string `env:"SITECMS_SITE_NAME"`
}

// MarkdownConfig controls post rendering.
type MarkdownConfig struct {
	Sanitize       bool `env:"SITECMS_MARKDOWN_SANITIZE"`
	HardWraps      bool `env:"SITECMS_MARKDOWN_HARD_WRAPS"`
	WordsPerMinute int  `env:"SITECMS_WORDS_PER_MINUTE"`
}

// RetentionConfig bounds how long activity entries are kept.
type RetentionConfig struct {
	Activity time.Duration `env:"SITECMS_ACTIVITY_RETENTION"`
}

// DefaultConfig returns a configuration that runs entirely in memory.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Server: ServerConfig{
			Addr:            ":8080",
			AdminPrefix:     "/admin/api",
			PublicPrefix:    "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Driver: DriverMemory, AutoMigrate: true},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: LoggerConsole,
			Level:    "info",
			Format:   "console",
		},
		Site: SiteConfig{
			BaseURL: "http://localhost:3000",
			Name:    "sitecms",
		},
		Markdown: MarkdownConfig{
			Sanitize:       true,
			WordsPerMinute: 200,
		},
		Retention: RetentionConfig{Activity: 180 * 24 * time.Hour},
	}
}

// FromEnv applies SITECMS_* environment overrides on top of DefaultConfig.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("sitecms config: parse env: %w", err)
	}
	return cfg, nil
}

// FromEnvironment is FromEnv reading from vars instead of the process
// environment.
func FromEnvironment(vars map[string]string) (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("sitecms config: parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports the first inconsistency found in cfg.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DefaultLocale)) {
	case "ar", "en":
	default:
		return fmt.Errorf("%w: %q", ErrDefaultLocaleInvalid, cfg.DefaultLocale)
	}

	driver := normalize(cfg.Storage.Driver)
	switch driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, driver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}

	if err := cfg.Logging.validate(); err != nil {
		return err
	}

	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %q", ErrSiteBaseURLInvalid, base)
		}
	}

	if cfg.Markdown.WordsPerMinute < 0 {
		return ErrReadingRateInvalid
	}
	if cfg.Retention.Activity < 0 {
		return ErrRetentionInvalid
	}
	return nil
}

// StorageDriver returns the normalised driver name.
func (cfg Config) StorageDriver() string {
	return normalize(cfg.Storage.Driver)
}

func (l LoggingConfig) validate() error {
	provider := normalize(l.Provider)
	if !slices.Contains([]string{"", LoggerConsole, LoggerGoLogger}, provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, l.Provider)
	}
	if level := normalize(l.Level); !slices.Contains(supportedLevels, level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, l.Level)
	}
	if provider == LoggerGoLogger {
		if format := normalize(l.Format); !slices.Contains(supportedFormats, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, l.Format)
		}
	}
	return nil
}

var (
	supportedLevels  = []string{"", "trace", "debug", "info", "warn", "warning", "error", "fatal"}
	supportedFormats = []string{"", "json", "console", "pretty"}
)

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
