package validation

// envNames maps config struct namespaces to the variables that set them.
var envNames = map[string]string{
	"Config.App.Name":                    "APP_NAME",
	"Config.App.Environment":             "APP_ENV",
	"Config.App.Port":                    "APP_PORT",
	"Config.App.LogsPath":                "LOGS_PATH",
	"Config.App.ShutdownTimeout":         "APP_SHUTDOWN_TIMEOUT",
	"Config.Catalog.BaseURL":             "CATALOG_BASE_URL",
	"Config.Catalog.Timeout":             "CATALOG_TIMEOUT",
	"Config.Catalog.BreakerThreshold":    "CATALOG_BREAKER_THRESHOLD",
	"Config.Catalog.BreakerCooldown":     "CATALOG_BREAKER_COOLDOWN",
	"Config.Catalog.MaxIdleConnsPerHost": "CATALOG_MAX_IDLE_CONNS_PER_HOST",
	"Config.Catalog.HealthInterval":      "CATALOG_HEALTH_INTERVAL",
	"Config.Redis.Host":                  "REDIS_HOST",
	"Config.Redis.Port":                  "REDIS_PORT",
	"Config.Redis.Database":              "REDIS_DB",
	"Config.Redis.PoolSize":              "REDIS_POOL_SIZE",
	"Config.Redis.MinIdleConns":          "REDIS_MIN_IDLE_CONNS",
	"Config.RateLimit.Request":           "RATE_LIMIT_MAX_REQUEST",
	"Config.RateLimit.Duration":          "RATE_LIMIT_DURATION",
}

// EnvName returns the environment variable behind a config field, or "".
func EnvName(namespace string) string {
	return envNames[namespace]
}
