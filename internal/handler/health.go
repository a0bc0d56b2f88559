package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/pkg/circuit"
	"github.com/Payphone-Digital/storefront/pkg/health"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BreakerReporter exposes the catalog circuit breakers.
type BreakerReporter interface {
	BreakerStats() []circuit.Stats
}

type HealthHandler struct {
	breakers    BreakerReporter
	redisClient redis.Client
	monitor     *health.Monitor
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
	Breakers  []circuit.Stats        `json:"breakers"`
	Upstreams []health.CheckResult   `json:"upstreams,omitempty"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthHandler accepts a nil redisClient or monitor.
func NewHealthHandler(breakers BreakerReporter, redisClient redis.Client, monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{
		breakers:    breakers,
		redisClient: redisClient,
		monitor:     monitor,
	}
}

// HealthCheck reports the catalog breakers and the optional Redis store.
// The storefront keeps serving while the catalog is down, so an open
// breaker only degrades the status.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
		Breakers:  h.breakers.BreakerStats(),
	}

	for _, stats := range response.Breakers {
		if stats.State != circuit.StateClosed.String() {
			response.Status = "degraded"
		}
	}

	// Redis is optional, so don't mark overall status as unhealthy if Redis is down
	response.Checks[constants.HealthCheckRedis] = h.checkRedis(ctx)

	if h.monitor != nil {
		response.Upstreams = h.monitor.Results()
		if !h.monitor.IsHealthy(constants.HealthCheckCatalog) {
			response.Status = "degraded"
		}
	}

	response.Checks["api"] = HealthCheck{
		Status:  "healthy",
		Message: "API is responsive",
	}

	logger.FromContext(ctx).Debug("Health check performed",
		zap.String("overall_status", response.Status),
	)

	c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if h.redisClient == nil || !h.redisClient.IsEnabled() {
		return HealthCheck{
			Status:  "disabled",
			Message: "Rate limit counters are kept in process",
		}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn("Redis ping failed", zap.Error(err))
		return HealthCheck{
			Status:  "unhealthy",
			Message: "Redis ping failed: " + err.Error(),
		}
	}

	return HealthCheck{
		Status:  "healthy",
		Message: "Redis connection is healthy",
	}
}
