package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderUserAgent      = "User-Agent"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderRetryAfter     = "Retry-After"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Common HTTP Error Messages
const (
	MsgInternalError = "Internal server error"
	MsgRateLimited   = "Rate limit exceeded"
)
