package middleware

import (
	"github.com/Payphone-Digital/storefront/internal/constants"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID takes the caller's X-Request-ID (or X-Correlation-ID) or mints a
// new one, echoes it back and stores the request tracking values in the
// request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetHeader(constants.HeaderXCorrelationID)
		}
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Header(constants.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequestInfo(c.Request.Context(), ctxutil.RequestInfo{
			RequestID: requestID,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(constants.CtxKeyRequestID), requestID)

		c.Next()
	}
}

// Locale negotiates the UI language from Accept-Language using match and
// stores it in the request context.
func Locale(match func(acceptLanguage string) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := match(c.GetHeader(constants.HeaderAcceptLanguage))
		if locale == "" {
			locale = constants.DefaultLocale
		}

		c.Request = c.Request.WithContext(ctxutil.WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", locale)
		c.Next()
	}
}
