package ctxutil

import (
	"context"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey = constants.CtxKeyRequestID
	ClientIPKey  = constants.CtxKeyClientIP
	UserAgentKey = constants.CtxKeyUserAgent
	StartTimeKey = constants.CtxKeyStartTime
	LocaleKey    = constants.CtxKeyLocale
)

// RequestInfo is the per-request metadata carried through the context.
type RequestInfo struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// WithRequestInfo stores request tracking values and the start time.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, info.RequestID)
	ctx = context.WithValue(ctx, ClientIPKey, info.ClientIP)
	ctx = context.WithValue(ctx, UserAgentKey, info.UserAgent)
	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}
	return ctx
}

// WithLocale stores the negotiated UI language tag.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, LocaleKey, locale)
}

// Getter functions
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UserAgentKey).(string); ok {
		return val
	}
	return ""
}

func GetLocale(ctx context.Context) string {
	if val, ok := ctx.Value(LocaleKey).(string); ok {
		return val
	}
	return constants.DefaultLocale
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// IsValidContext checks if context is still valid
func IsValidContext(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}
