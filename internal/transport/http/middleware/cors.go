package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const preflightCacheSeconds = "86400"

// CORS emits Cross-Origin Resource Sharing headers and short-circuits
// preflight requests. A "*" entry in allowedOrigins permits any
// origin; otherwise only listed origins are reflected back, with
// credentials allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if wildcard {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method != http.MethodOptions {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin,Content-Type,Accept,Authorization,X-Request-ID,X-Trace-ID")
		c.Header("Access-Control-Max-Age", preflightCacheSeconds)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
