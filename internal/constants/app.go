package constants

// Application Information
const (
	AppName    = "storefront"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
	DefaultLocale      = "en"
)

// Cache Key Prefixes. Redis only ever holds rate limit counters.
const (
	CacheKeyPrefix    = "storefront:"
	CacheKeyRateLimit = CacheKeyPrefix + "ratelimit:"
)
