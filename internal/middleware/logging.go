package middleware

import (
	"io"
	"net/http"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware logs HTTP requests and responses
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{constants.RouteHealth},
		Formatter: func(param gin.LogFormatterParams) string {
			log := logger.GetLogger()
			if param.Request != nil {
				log = logger.FromContext(param.Request.Context())
			}

			fields := []zap.Field{
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status_code", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.Int("response_size", param.BodySize),
			}
			if param.Request != nil {
				fields = append(fields, zap.String("user_agent", param.Request.UserAgent()))
			}

			switch {
			case param.ErrorMessage != "":
				log.Error("Request error", append(fields, zap.String("error", param.ErrorMessage))...)
			case param.Latency > constants.SlowRequestThreshold:
				log.Warn("Slow request detected", fields...)
			case param.StatusCode >= http.StatusInternalServerError:
				log.Warn("Server error", fields...)
			default:
				log.Info("HTTP Request", fields...)
			}

			return "" // Return empty string to prevent default logging
		},
		Output: io.Discard, // Discard default output since we're using Zap
	})
}

// RecoveryMiddleware recovers from panics, logs them and answers with a
// plain error page.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)
		logger.FromContext(c.Request.Context()).Error("Request aborted by panic",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)

		c.Header(constants.HeaderContentType, constants.ContentTypeText)
		c.String(http.StatusInternalServerError, constants.MsgInternalError)
		c.Abort()
	})
}
