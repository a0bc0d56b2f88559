package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name" validate:"required"`
	Environment     string        `mapstructure:"environment" validate:"oneof=development staging production"`
	Debug           bool          `mapstructure:"debug"`
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	LogsPath        string        `mapstructure:"logs_path" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type CatalogConfig struct {
	BaseURL             string        `mapstructure:"base_url" validate:"required,url"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
	BreakerThreshold    int           `mapstructure:"breaker_threshold" validate:"gte=1"`
	BreakerCooldown     time.Duration `mapstructure:"breaker_cooldown" validate:"gt=0"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host" validate:"gte=1"`
	HealthInterval      time.Duration `mapstructure:"health_interval" validate:"gte=0"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host" validate:"required_if=Enabled true"`
	Port         int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database" validate:"gte=0"`
	PoolSize     int           `mapstructure:"pool_size" validate:"gte=1"`
	MinIdleConns int           `mapstructure:"min_idle_conns" validate:"gte=0"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RateLimitConfig struct {
	Request  int `mapstructure:"request" validate:"gte=0"`
	Duration int `mapstructure:"duration" validate:"gte=1"`
}

// LoadConfig reads the environment, after loading envFiles (".env" when none
// are given). Missing env files are not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	config := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", constants.AppName),
			Environment:     getEnv("APP_ENV", constants.DefaultEnvironment),
			Port:            getEnv("APP_PORT", constants.DefaultPort),
			Debug:           getEnvAsBool("APP_DEBUG", false),
			LogsPath:        getEnv("LOGS_PATH", "./logs"),
			ShutdownTimeout: getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", constants.DefaultShutdownTimeout),
		},
		Catalog: CatalogConfig{
			BaseURL:             getEnv("CATALOG_BASE_URL", constants.DefaultCatalogBaseURL),
			Timeout:             getEnvAsDuration("CATALOG_TIMEOUT", constants.DefaultCatalogTimeout),
			BreakerThreshold:    getEnvAsInt("CATALOG_BREAKER_THRESHOLD", constants.DefaultBreakerThreshold),
			BreakerCooldown:     getEnvAsDuration("CATALOG_BREAKER_COOLDOWN", constants.DefaultBreakerCooldown),
			MaxIdleConnsPerHost: getEnvAsInt("CATALOG_MAX_IDLE_CONNS_PER_HOST", 10),
			HealthInterval:      getEnvAsDuration("CATALOG_HEALTH_INTERVAL", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			Database:     getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Request:  getEnvAsInt("RATE_LIMIT_MAX_REQUEST", 120),
			Duration: getEnvAsInt("RATE_LIMIT_DURATION", 60),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %s: %w", strings.Join(validation.Messages(err), "; "), err)
	}
	return nil
}

func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == constants.EnvProduction
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
