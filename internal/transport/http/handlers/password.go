package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// PasswordHandler exposes the password reset flow.
type PasswordHandler struct {
	reset  *usecase.PasswordResetService
	mail   port.MailSender
	logger *zap.Logger
}

func NewPasswordHandler(reset *usecase.PasswordResetService, mail port.MailSender, log *zap.Logger) *PasswordHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordHandler{
		reset:  reset,
		mail:   mail,
		logger: log,
	}
}

// RegisterRoutes binds password reset endpoints. forgotMiddlewares guard the
// initiation endpoint, which sends mail and gets rate limited.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, forgotMiddlewares ...gin.HandlerFunc) {
	forgot := append([]gin.HandlerFunc{}, forgotMiddlewares...)
	forgot = append(forgot, h.ForgotPassword)
	r.POST("/forgot-password", forgot...)

	r.POST("/reset-password", h.ResetPassword)
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description Emails a reset token when the address belongs to an account. The response never reveals whether the address is registered.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Reset request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/forgot-password [post]
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.TrimSpace(req.Email)

	token, err := h.reset.RequestReset(c.Request.Context(), email)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "Internal server error")
		return
	}

	// An empty token means the address is unknown. The response is the same
	// either way, and delivery problems are logged and swallowed.
	if token != "" && h.mail != nil {
		if sendErr := h.mail.SendPasswordResetEmail(c.Request.Context(), email, token); sendErr != nil {
			h.logger.Error("failed to send password reset email",
				zap.String("email", logger.MaskEmail(email)),
				zap.Error(sendErr))
		}
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "If an account exists with this email, you will receive a password reset link"})
}

// ResetPassword godoc
// @Summary Complete a password reset
// @Description Validates the emailed reset token and replaces the account password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset confirmation"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.reset.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidToken, Status: http.StatusBadRequest, Message: "Invalid or expired reset token"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
		}, http.StatusInternalServerError, "Password reset failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successful"})
}
