package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
	"github.com/arklim/social-platform-auth/internal/repository"
)

// PasswordResetService coordinates password reset initiation and completion.
type PasswordResetService struct {
	cfg    *config.AppConfig
	users  port.UserRepository
	hasher port.PasswordHasher
	signer port.TokenSigner
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	cfg *config.AppConfig,
	users port.UserRepository,
	hasher port.PasswordHasher,
	signer port.TokenSigner,
	events port.EventPublisher,
	log *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		cfg:    cfg,
		users:  users,
		hasher: hasher,
		signer: signer,
		events: events,
		logger: log,
		now:    time.Now,
	}
}

// RequestReset issues a reset token for email. The empty token for unknown
// emails tells the caller to skip dispatch without revealing that the account
// does not exist. Verification status is not consulted: unverified accounts
// can reset their password.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", newValidationError("Email is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.signer.Sign(user.Email, s.cfg.Tokens.PasswordResetSalt)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	s.logger.Info("password reset requested",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return token, nil
}

// ResetPassword consumes a reset token and replaces the account password.
// Existing sessions stay valid: issued bearer tokens are stateless and cannot
// be recalled.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return newValidationError("Token and new password are required")
	}
	if err := validatePasswordLength(newPassword, s.cfg.Password.MinLength); err != nil {
		return err
	}

	email, err := s.signer.Verify(token, s.cfg.Tokens.PasswordResetSalt, s.cfg.Tokens.PasswordResetMaxAge)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	event := domain.PasswordChangedEvent{
		EventID:   uuid.NewString(),
		UserID:    user.ID,
		ChangedAt: s.now().UTC(),
	}
	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.logger.Warn("publish password changed event",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))

	return nil
}
