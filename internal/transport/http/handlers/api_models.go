package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the minimal view of an account returned by the API.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	Message      string      `json:"message"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
}

// UnverifiedLoginResponse is returned when credentials are correct but the
// account's email address has not been confirmed yet. The embedded action
// tells clients which endpoint resolves the situation.
type UnverifiedLoginResponse struct {
	Error  string `json:"error"`
	Action string `json:"action"`
	Email  string `json:"email"`
}

// RefreshResponse contains the access token issued by the refresh endpoint.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// ForgotPasswordRequest represents a password reset initiation payload.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest captures a password reset confirmation payload.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// VerifyEmailRequest holds the email confirmation payload.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// ResendVerificationRequest asks for a fresh confirmation link.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// newUserSummary converts a domain user to the view embedded in API responses.
func newUserSummary(user *domain.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{ID: user.ID, Email: user.Email}
}

// bindJSON enforces the JSON content type and decodes the request body into
// dst. It writes the error response itself and reports whether the caller may
// proceed.
func bindJSON(c *gin.Context, dst any) bool {
	if c.ContentType() != "application/json" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Content-Type must be application/json"})
		return false
	}

	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON payload"})
		return false
	}

	return true
}
