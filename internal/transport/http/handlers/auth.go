package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// AuthHandler exposes login, logout, and token refresh endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds session endpoints. requireAuth guards logout and
// requireRefresh guards token refresh.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth, requireRefresh gin.HandlerFunc) {
	r.POST("/login", h.Login)
	r.POST("/logout", requireAuth, h.Logout)
	r.POST("/refresh", requireRefresh, h.Refresh)
}

// Login godoc
// @Summary Authenticate and issue a token pair
// @Description Verifies credentials and returns stateless access and refresh tokens. Unknown addresses and wrong passwords produce an identical response.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} UnverifiedLoginResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailNotVerified) && user != nil {
			c.JSON(http.StatusForbidden, UnverifiedLoginResponse{
				Error:  "Please verify your email address before logging in",
				Action: "resend_verification",
				Email:  user.Email,
			})
			return
		}

		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "Invalid credentials"},
		}, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         newUserSummary(user),
	})
}

// Logout godoc
// @Summary End the current session
// @Description Acknowledges the logout. Bearer tokens are stateless, so the client discards them; nothing is revoked server side.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Refresh godoc
// @Summary Mint a new access token
// @Description Exchanges a valid refresh token, presented as the bearer credential, for a fresh access token.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
		return
	}

	accessToken, err := h.auth.RefreshAccessToken(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken})
}
