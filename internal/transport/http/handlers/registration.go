package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/usecase"
)

// RegistrationHandler exposes endpoints for account creation and email
// confirmation.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
	mail         port.MailSender
	logger       *zap.Logger
}

func NewRegistrationHandler(registration *usecase.RegistrationService, mail port.MailSender, log *zap.Logger) *RegistrationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationHandler{
		registration: registration,
		mail:         mail,
		logger:       log,
	}
}

// RegisterRoutes binds registration endpoints. resendMiddlewares guard the
// resend endpoint, which is a mail-sending amplifier and gets rate limited.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup, resendMiddlewares ...gin.HandlerFunc) {
	r.POST("/register", h.Register)
	r.POST("/verify-email", h.VerifyEmail)

	resend := append([]gin.HandlerFunc{}, resendMiddlewares...)
	resend = append(resend, h.ResendVerification)
	r.POST("/resend-verification", resend...)
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unverified account and emails a confirmation link.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.registration.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "Email already registered"},
		}, http.StatusInternalServerError, "Registration failed")
		return
	}

	// The account is committed at this point. Delivery problems must not
	// undo the registration, so they are logged and swallowed.
	h.sendVerificationMail(c.Request.Context(), user.Email, token)

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "Registration successful! Please check your email to verify your account.",
		UserID:  user.ID,
	})
}

// VerifyEmail godoc
// @Summary Confirm an account's email address
// @Description Validates the emailed token and marks the account verified.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyEmailRequest true "Verification request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/verify-email [post]
func (h *RegistrationHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	_, alreadyVerified, err := h.registration.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidToken, Status: http.StatusBadRequest, Message: "Invalid or expired verification token"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
		}, http.StatusInternalServerError, "Email verification failed")
		return
	}

	if alreadyVerified {
		c.JSON(http.StatusOK, MessageResponse{Message: "Email already verified"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Email verified successfully! You can now login."})
}

// ResendVerification godoc
// @Summary Resend the email confirmation link
// @Description Sends a fresh confirmation link when an unverified account exists. The response never reveals whether the address is registered.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResendVerificationRequest true "Resend request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/resend-verification [post]
func (h *RegistrationHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.TrimSpace(req.Email)

	token, err := h.registration.ResendVerification(c.Request.Context(), email)
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "Internal server error")
		return
	}

	// An empty token means the address is unknown or already verified. The
	// response is the same either way.
	if token != "" {
		h.sendVerificationMail(c.Request.Context(), email, token)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "If an unverified account exists with this email, a verification link has been sent."})
}

func (h *RegistrationHandler) sendVerificationMail(ctx context.Context, recipient, token string) {
	if h.mail == nil {
		return
	}

	if err := h.mail.SendVerificationEmail(ctx, recipient, token); err != nil {
		h.logger.Error("failed to send verification email",
			zap.String("email", logger.MaskEmail(recipient)),
			zap.Error(err))
	}
}
