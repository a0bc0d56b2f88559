package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client is the slice of Redis the storefront needs: shared rate limit
// counters and a liveness probe.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Close() error
}

type redisClient struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient returns a disabled client when cfg.Enabled is false. An
// unreachable server is logged but not fatal; callers fail open.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-process counters")
		return disabledClient{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	client := &redisClient{rdb: rdb, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.Error("Failed to connect to Redis",
			zap.String("address", cfg.Address()),
			zap.Error(err),
		)
	} else {
		logger.Info("Successfully connected to Redis",
			zap.String("address", cfg.Address()),
			zap.Int("database", cfg.DB),
		)
	}

	return client
}

func (c *redisClient) IsEnabled() bool { return true }

func (c *redisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Incr bumps key and starts its expiry on the first hit of a window.
func (c *redisClient) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			c.logger.Warn("Failed to set counter expiry",
				zap.String("key", key),
				zap.Duration("window", window),
				zap.Error(err),
			)
		}
	}
	return count, nil
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}

// ErrDisabled is returned by every call on a disabled client.
var ErrDisabled = errors.New("redis is disabled")

type disabledClient struct{}

func (disabledClient) IsEnabled() bool            { return false }
func (disabledClient) Ping(context.Context) error { return ErrDisabled }
func (disabledClient) Close() error               { return nil }
func (disabledClient) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, ErrDisabled
}
