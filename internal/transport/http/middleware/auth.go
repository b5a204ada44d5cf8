package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error string `json:"error"`
}

// RequireAuth validates the Authorization header and stores the
// authenticated user ID in the request context. The endpoint expects an
// access token; refresh tokens are rejected as invalid.
func RequireAuth(sessions port.SessionTokens) gin.HandlerFunc {
	return requireToken(sessions, domain.TokenTypeAccess)
}

// RequireRefresh is the refresh-endpoint variant of RequireAuth: the
// bearer token must be a refresh token.
func RequireRefresh(sessions port.SessionTokens) gin.HandlerFunc {
	return requireToken(sessions, domain.TokenTypeRefresh)
}

func requireToken(sessions port.SessionTokens, want domain.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				ErrorResponse{Error: "Authorization token is missing"})
			return
		}

		userID, err := sessions.Parse(token, want)
		if err != nil {
			switch {
			case errors.Is(err, port.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					ErrorResponse{Error: "Token has expired"})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					ErrorResponse{Error: "Invalid token"})
			}
			return
		}

		c.Set(UserIDKey, userID)

		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = userID
		}

		c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. A missing header, a non-Bearer scheme, or an empty token
// all report false.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

// GetAuthenticatedUserID retrieves the user ID from context (helper for handlers)
func GetAuthenticatedUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	if id, ok := userID.(string); ok {
		return id, true
	}

	return "", false
}
