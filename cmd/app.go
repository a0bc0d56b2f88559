package main

import (
	"fmt"
	"time"

	configs "github.com/Payphone-Digital/storefront/config"
	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/handler"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/router"
	"github.com/Payphone-Digital/storefront/internal/service"
	"github.com/Payphone-Digital/storefront/internal/view"
	"github.com/Payphone-Digital/storefront/pkg/cache"
	"github.com/Payphone-Digital/storefront/pkg/catalog"
	"github.com/Payphone-Digital/storefront/pkg/circuit"
	"github.com/Payphone-Digital/storefront/pkg/health"
	"github.com/Payphone-Digital/storefront/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// app holds everything serve builds and must release on exit.
type app struct {
	engine   *gin.Engine
	client   *catalog.Client
	redis    redis.Client
	counters *cache.Counters
	monitor  *health.Monitor
}

func newCatalogClient(config *configs.Config, log *zap.Logger) (*catalog.Client, error) {
	transport := catalog.DefaultTransportConfig()
	transport.MaxIdleConnsPerHost = config.Catalog.MaxIdleConnsPerHost

	client, err := catalog.NewClient(catalog.Config{
		BaseURL:   config.Catalog.BaseURL,
		Timeout:   config.Catalog.Timeout,
		Transport: transport,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("catalog client: %w", err)
	}
	return client, nil
}

func newApp(config *configs.Config, log *zap.Logger) (*app, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	client, err := newCatalogClient(config, log)
	if err != nil {
		return nil, err
	}

	breakers := service.NewBreakerRegistry(circuit.Config{
		Threshold:        config.Catalog.BreakerThreshold,
		Timeout:          config.Catalog.BreakerCooldown,
		SuccessThreshold: 2,
		MaxHalfOpen:      1,
	}, log)
	catalogService := service.NewCatalogService(client, breakers, log)

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, log)

	counters := cache.NewCounters(time.Minute)
	var store middleware.CounterStore = counters
	if redisClient.IsEnabled() {
		store = redisClient
	}

	monitor := health.NewMonitor(config.Catalog.HealthInterval, config.Catalog.Timeout, log)
	monitor.RegisterHTTPChecker(constants.HealthCheckCatalog, config.Catalog.BaseURL, constants.CatalogProbePath, nil)

	engine := router.NewRouter(
		handler.NewProductHandler(catalogService, renderer),
		handler.NewHealthHandler(catalogService, redisClient, monitor),
		renderer,
		store,
		config,
	).SetupRoutes()

	return &app{
		engine:   engine,
		client:   client,
		redis:    redisClient,
		counters: counters,
		monitor:  monitor,
	}, nil
}

func (a *app) Close() {
	a.monitor.Stop()
	_ = a.counters.Close()
	_ = a.redis.Close()
	a.client.Close()
}
