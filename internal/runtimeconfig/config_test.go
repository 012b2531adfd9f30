package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"missing addr", func(c *runtimeconfig.Config) { c.Server.Addr = " " }, runtimeconfig.ErrServerAddrRequired},
		{"bad locale", func(c *runtimeconfig.Config) { c.DefaultLocale = "fr" }, runtimeconfig.ErrDefaultLocaleInvalid},
		{"unknown driver", func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" }, runtimeconfig.ErrStorageDriverUnknown},
		{"sqlite without dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "sqlite" }, runtimeconfig.ErrStorageDSNRequired},
		{"cache ttl", func(c *runtimeconfig.Config) { c.Cache.TTL = 0 }, runtimeconfig.ErrCacheTTLInvalid},
		{"logger provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"logger level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"gologger format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
		{"relative base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "/site" }, runtimeconfig.ErrSiteBaseURLInvalid},
		{"negative wpm", func(c *runtimeconfig.Config) { c.Markdown.WordsPerMinute = -1 }, runtimeconfig.ErrReadingRateInvalid},
		{"negative retention", func(c *runtimeconfig.Config) { c.Retention.Activity = -time.Hour }, runtimeconfig.ErrRetentionInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateAllowsDisabledCacheWithoutTTL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFromEnvironmentOverridesDefaults(t *testing.T) {
	cfg, err := runtimeconfig.FromEnvironment(map[string]string{
		"SITECMS_ADDR":           ":9090",
		"SITECMS_DEFAULT_LOCALE": "ar",
		"SITECMS_STORAGE_DRIVER": "sqlite",
		"SITECMS_STORAGE_DSN":    "file:sitecms.db",
		"SITECMS_CACHE_TTL":      "5m",
		"SITECMS_LOG_FOCUS":      "sitecms.posts,sitecms.http",
	})
	if err != nil {
		t.Fatalf("FromEnvironment: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.DefaultLocale != "ar" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.StorageDriver() != runtimeconfig.DriverSQLite || cfg.Storage.DSN != "file:sitecms.db" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.Cache.TTL)
	}
	if len(cfg.Logging.Focus) != 2 {
		t.Fatalf("expected two focus entries, got %v", cfg.Logging.Focus)
	}
	if cfg.Server.AdminPrefix != "/admin/api" {
		t.Fatalf("unset variables must keep defaults, got %q", cfg.Server.AdminPrefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
