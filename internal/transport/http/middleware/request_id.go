package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates a correlation identifier for every request. A
// caller-supplied X-Request-ID is reused after trimming; blank or
// missing values get a generated UUID. The identifier is placed on the
// request context for log enrichment and echoed in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID))
		c.Next()
	}
}
