package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CounterStore counts hits per key within a fixed window. Both the
// in-process counters and Redis implement it.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows maxRequest requests per client IP within each window.
// A non-positive maxRequest disables the limit. When the store fails the
// request is let through.
func RateLimit(store CounterStore, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxRequest <= 0 || store == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()

		count, err := store.Incr(ctx, constants.CacheKeyRateLimit+ip, window)
		if err != nil {
			logger.FromContext(ctx).Warn("Rate limit store unavailable, allowing request",
				zap.String("client_ip", ip),
				zap.Error(err),
			)
			c.Next()
			return
		}

		remaining := int64(maxRequest) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequest))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequest) {
			logger.FromContext(ctx).Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequest),
				zap.Duration("window", window),
			)

			c.Header(constants.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			c.Header(constants.HeaderContentType, constants.ContentTypeText)
			c.String(http.StatusTooManyRequests, constants.MsgRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
