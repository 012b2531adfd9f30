package sitecms

import "github.com/goliatone/go-sitecms/internal/runtimeconfig"

var (
	ErrServerAddrRequired     = runtimeconfig.ErrServerAddrRequired
	ErrDefaultLocaleInvalid   = runtimeconfig.ErrDefaultLocaleInvalid
	ErrStorageDriverUnknown   = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid        = runtimeconfig.ErrCacheTTLInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrSiteBaseURLInvalid     = runtimeconfig.ErrSiteBaseURLInvalid
	ErrReadingRateInvalid     = runtimeconfig.ErrReadingRateInvalid
	ErrRetentionInvalid       = runtimeconfig.ErrRetentionInvalid
)

type (
	Config          = runtimeconfig.Config
	ServerConfig    = runtimeconfig.ServerConfig
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	SiteConfig      = runtimeconfig.SiteConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	RetentionConfig = runtimeconfig.RetentionConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv returns DefaultConfig with SITECMS_* environment overrides.
func ConfigFromEnv() (Config, error) {
	return runtimeconfig.FromEnv()
}
