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

// ErrEmailTaken indicates the email address is already registered.
var ErrEmailTaken = errors.New("email already registered")

// RegistrationService handles new account onboarding and email verification.
type RegistrationService struct {
	cfg    *config.AppConfig
	users  port.UserRepository
	hasher port.PasswordHasher
	signer port.TokenSigner
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	cfg *config.AppConfig,
	users port.UserRepository,
	hasher port.PasswordHasher,
	signer port.TokenSigner,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		cfg:    cfg,
		users:  users,
		hasher: hasher,
		signer: signer,
		events: events,
		logger: log,
		now:    time.Now,
	}
}

// Register creates an unverified account and returns the verification token
// to dispatch. The account is persisted before the token is generated, so a
// token failure leaves the registration in place.
func (s *RegistrationService) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", newValidationError("Email and password are required")
	}
	if !validEmailFormat(email) {
		return nil, "", newValidationError("Invalid email format")
	}
	if err := validatePasswordLength(password, s.cfg.Password.MinLength); err != nil {
		return nil, "", err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.signer.Sign(user.Email, s.cfg.Tokens.EmailVerificationSalt)
	if err != nil {
		return nil, "", fmt.Errorf("generate verification token: %w", err)
	}

	s.publishRegistered(ctx, user, now)

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return &user, token, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
// The second return value reports that the account was already verified, in
// which case no state changes.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) (*domain.User, bool, error) {
	if token == "" {
		return nil, false, newValidationError("Verification token is required")
	}

	email, err := s.signer.Verify(token, s.cfg.Tokens.EmailVerificationSalt, s.cfg.Tokens.EmailVerificationMaxAge)
	if err != nil {
		return nil, false, ErrInvalidToken
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("lookup user: %w", err)
	}

	if user.EmailVerified {
		return user, true, nil
	}

	verifiedAt := s.now().UTC()
	if err := s.users.MarkEmailVerified(ctx, user.ID, verifiedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("mark email verified: %w", err)
	}

	user.EmailVerified = true
	user.EmailVerifiedAt = &verifiedAt

	event := domain.EmailVerifiedEvent{
		EventID:    uuid.NewString(),
		UserID:     user.ID,
		Email:      user.Email,
		VerifiedAt: verifiedAt,
	}
	if err := s.events.PublishEmailVerified(ctx, event); err != nil {
		s.logger.Warn("publish email verified event",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
	}

	s.logger.Info("email verified", zap.String("user_id", user.ID))

	return user, false, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account. The empty token for unknown or already verified emails tells the
// caller to skip dispatch without revealing which case occurred.
func (s *RegistrationService) ResendVerification(ctx context.Context, email string) (string, error) {
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

	if user.EmailVerified {
		return "", nil
	}

	token, err := s.signer.Sign(user.Email, s.cfg.Tokens.EmailVerificationSalt)
	if err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}

	return token, nil
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user domain.User, at time.Time) {
	event := domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Email:        user.Email,
		RegisteredAt: at,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered event",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
	}
}
