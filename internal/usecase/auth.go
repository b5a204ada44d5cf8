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
	"github.com/arklim/social-platform-auth/internal/repository"
)

// dummyPasswordHash is verified against when a user does not exist, so the
// login path costs the same for unknown and known emails.
const dummyPasswordHash = "argon2id$v=19$m=65536,t=3,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

var (
	// ErrInvalidCredentials indicates the email or password is incorrect. The
	// two causes are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified indicates the credentials are correct but the
	// account has not completed email verification.
	ErrEmailNotVerified = errors.New("email not verified")
)

// AuthService coordinates login and session token issuance.
type AuthService struct {
	users    port.UserRepository
	hasher   port.PasswordHasher
	sessions port.SessionTokens
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	sessions port.SessionTokens,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// Login validates credentials and issues an access and refresh token pair.
// When the account exists but is unverified, the user is returned alongside
// ErrEmailNotVerified so the caller can point at the resend flow.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.TokenPair{}, newValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, dummyPasswordHash)
			return nil, domain.TokenPair{}, ErrInvalidCredentials
		}
		return nil, domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.TokenPair{}, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return user, domain.TokenPair{}, ErrEmailNotVerified
	}

	pair, err := s.sessions.IssuePair(user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}

	event := domain.UserLoggedInEvent{
		EventID:  uuid.NewString(),
		UserID:   user.ID,
		LoggedAt: s.now().UTC(),
	}
	if err := s.events.PublishUserLoggedIn(ctx, event); err != nil {
		s.logger.Warn("publish user logged in event",
			zap.Error(err),
			zap.String("user_id", user.ID),
		)
	}

	return user, pair, nil
}

// RefreshAccessToken mints a fresh access token for the subject of an already
// validated refresh token. The account is not re-checked: a refresh token
// stays usable for its full lifetime.
func (s *AuthService) RefreshAccessToken(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	access, err := s.sessions.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return access, nil
}
