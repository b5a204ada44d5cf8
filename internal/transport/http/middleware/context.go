package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDHeader carries the trace identifier on requests and responses.
const TraceIDHeader = "X-Trace-ID"

// UserIDKey is the gin context key under which the auth middleware
// stores the authenticated user ID.
const UserIDKey = "user_id"

const (
	traceIDKey    = "trace_id"
	requestCtxKey = "request_context"
)

// RequestContext carries per-request client metadata for logging.
type RequestContext struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
}

// EnrichContext assigns each request a trace ID and records client
// metadata. An inbound X-Trace-ID header is honored so callers can
// correlate requests across services; otherwise a fresh UUID is
// issued. The trace ID is echoed back on the response.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := strings.TrimSpace(c.GetHeader(TraceIDHeader))
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(traceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Set(requestCtxKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetTraceID returns the trace ID assigned by EnrichContext, or an
// empty string when the middleware has not run.
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// GetRequestContext returns the metadata recorded by EnrichContext.
// It never returns nil; the fields are empty when the middleware has
// not run.
func GetRequestContext(c *gin.Context) *RequestContext {
	if v, exists := c.Get(requestCtxKey); exists {
		if reqCtx, ok := v.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}
