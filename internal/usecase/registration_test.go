package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/infra/config"
	"github.com/arklim/social-platform-auth/internal/infra/security"
	"github.com/arklim/social-platform-auth/internal/repository"
)

type mockUserRepository struct {
	createErr   error
	createCalls int
	createdUser domain.User

	getByEmailResult *domain.User
	getByEmailErr    error
	getByEmailCalls  int
	getByEmailLast   string

	updatePasswordErr   error
	updatePasswordCalls int
	updatePasswordID    string
	updatePasswordHash  string

	markVerifiedErr   error
	markVerifiedCalls int
	markVerifiedID    string
	markVerifiedAt    time.Time
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.createCalls++
	m.createdUser = user
	return m.createErr
}

func (m *mockUserRepository) GetByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("unexpected call: GetByID")
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.getByEmailCalls++
	m.getByEmailLast = email
	if m.getByEmailResult != nil {
		copy := *m.getByEmailResult
		return &copy, m.getByEmailErr
	}
	return nil, m.getByEmailErr
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	m.updatePasswordCalls++
	m.updatePasswordID = id
	m.updatePasswordHash = passwordHash
	return m.updatePasswordErr
}

func (m *mockUserRepository) MarkEmailVerified(_ context.Context, id string, verifiedAt time.Time) error {
	m.markVerifiedCalls++
	m.markVerifiedID = id
	m.markVerifiedAt = verifiedAt
	return m.markVerifiedErr
}

type mockEventPublisher struct {
	publishErr error

	registeredEvents []domain.UserRegisteredEvent
	verifiedEvents   []domain.EmailVerifiedEvent
	loggedInEvents   []domain.UserLoggedInEvent
	passwordEvents   []domain.PasswordChangedEvent
}

func (m *mockEventPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.registeredEvents = append(m.registeredEvents, event)
	return m.publishErr
}

func (m *mockEventPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	m.verifiedEvents = append(m.verifiedEvents, event)
	return m.publishErr
}

func (m *mockEventPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	m.loggedInEvents = append(m.loggedInEvents, event)
	return m.publishErr
}

func (m *mockEventPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.passwordEvents = append(m.passwordEvents, event)
	return m.publishErr
}

func newTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Password: config.PasswordSettings{MinLength: 8},
		Tokens: config.TokenSettings{
			Secret:                  "test-secret",
			PasswordResetSalt:       "password-reset-salt",
			PasswordResetMaxAge:     time.Hour,
			EmailVerificationSalt:   "email-verification-salt",
			EmailVerificationMaxAge: 24 * time.Hour,
		},
	}
}

// newTestHasher keeps argon2 cheap so the suite stays fast.
func newTestHasher() *security.Argon2Hasher {
	return security.NewArgon2HasherWithParams(security.Argon2Params{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
	})
}

func newRegistrationService(users *mockUserRepository, events *mockEventPublisher) (*RegistrationService, *security.TokenSigner) {
	cfg := newTestConfig()
	signer := security.NewTokenSigner(cfg.Tokens.Secret)
	svc := NewRegistrationService(cfg, users, newTestHasher(), signer, events, zap.NewNop())
	return svc, signer
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	users := &mockUserRepository{}
	events := &mockEventPublisher{}
	svc, signer := newRegistrationService(users, events)

	user, token, err := svc.Register(context.Background(), "new@example.com", "longenough")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if users.createCalls != 1 {
		t.Fatalf("Create called %d times, want 1", users.createCalls)
	}
	if user.ID == "" {
		t.Error("user ID not generated")
	}
	if user.Email != "new@example.com" {
		t.Errorf("user email = %q, want %q", user.Email, "new@example.com")
	}
	if user.EmailVerified {
		t.Error("new user must start unverified")
	}
	if users.createdUser.PasswordHash == "longenough" || users.createdUser.PasswordHash == "" {
		t.Error("password was not hashed before persistence")
	}
	if !newTestHasher().Verify("longenough", users.createdUser.PasswordHash) {
		t.Error("stored hash does not verify the original password")
	}

	email, err := signer.Verify(token, "email-verification-salt", 24*time.Hour)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if email != "new@example.com" {
		t.Errorf("token email = %q, want %q", email, "new@example.com")
	}

	if len(events.registeredEvents) != 1 {
		t.Fatalf("registered events = %d, want 1", len(events.registeredEvents))
	}
	if events.registeredEvents[0].UserID != user.ID {
		t.Errorf("event user ID = %q, want %q", events.registeredEvents[0].UserID, user.ID)
	}
}

func TestRegisterTrimsEmail(t *testing.T) {
	users := &mockUserRepository{}
	svc, _ := newRegistrationService(users, &mockEventPublisher{})

	user, _, err := svc.Register(context.Background(), "  padded@example.com  ", "longenough")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.Email != "padded@example.com" {
		t.Errorf("email = %q, want trimmed %q", user.Email, "padded@example.com")
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "missing email", email: "", password: "longenough", wantMsg: "Email and password are required"},
		{name: "missing password", email: "user@example.com", password: "", wantMsg: "Email and password are required"},
		{name: "whitespace email", email: "   ", password: "longenough", wantMsg: "Email and password are required"},
		{name: "invalid format", email: "not-an-email", password: "longenough", wantMsg: "Invalid email format"},
		{name: "no domain dot", email: "user@localhost", password: "longenough", wantMsg: "Invalid email format"},
		{name: "short password", email: "user@example.com", password: "short", wantMsg: "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{}
			svc, _ := newRegistrationService(users, &mockEventPublisher{})

			_, _, err := svc.Register(context.Background(), tt.email, tt.password)

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Register() error = %v, want ValidationError", err)
			}
			if validationErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", validationErr.Message, tt.wantMsg)
			}
			if users.createCalls != 0 {
				t.Errorf("Create called %d times on invalid input", users.createCalls)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &mockUserRepository{createErr: repository.ErrDuplicate}
	events := &mockEventPublisher{}
	svc, _ := newRegistrationService(users, events)

	_, _, err := svc.Register(context.Background(), "taken@example.com", "longenough")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("Register() error = %v, want %v", err, ErrEmailTaken)
	}
	if len(events.registeredEvents) != 0 {
		t.Errorf("registered events = %d, want 0", len(events.registeredEvents))
	}
}

func TestVerifyEmailMarksVerified(t *testing.T) {
	users := &mockUserRepository{
		getByEmailResult: &domain.User{
			ID:    "user-1",
			Email: "user@example.com",
		},
	}
	events := &mockEventPublisher{}
	svc, signer := newRegistrationService(users, events)

	token, err := signer.Sign("user@example.com", "email-verification-salt")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	user, alreadyVerified, err := svc.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if alreadyVerified {
		t.Error("alreadyVerified = true for a fresh account")
	}
	if !user.EmailVerified {
		t.Error("returned user not marked verified")
	}
	if user.EmailVerifiedAt == nil {
		t.Error("verified timestamp not set on returned user")
	}

	if users.markVerifiedCalls != 1 {
		t.Fatalf("MarkEmailVerified called %d times, want 1", users.markVerifiedCalls)
	}
	if users.markVerifiedID != "user-1" {
		t.Errorf("MarkEmailVerified id = %q, want %q", users.markVerifiedID, "user-1")
	}

	if len(events.verifiedEvents) != 1 {
		t.Fatalf("verified events = %d, want 1", len(events.verifiedEvents))
	}
}

func TestVerifyEmailAlreadyVerified(t *testing.T) {
	verifiedAt := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
	users := &mockUserRepository{
		getByEmailResult: &domain.User{
			ID:              "user-1",
			Email:           "user@example.com",
			EmailVerified:   true,
			EmailVerifiedAt: &verifiedAt,
		},
	}
	events := &mockEventPublisher{}
	svc, signer := newRegistrationService(users, events)

	token, err := signer.Sign("user@example.com", "email-verification-salt")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	_, alreadyVerified, err := svc.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !alreadyVerified {
		t.Error("alreadyVerified = false for a verified account")
	}
	if users.markVerifiedCalls != 0 {
		t.Errorf("MarkEmailVerified called %d times, want 0", users.markVerifiedCalls)
	}
	if len(events.verifiedEvents) != 0 {
		t.Errorf("verified events = %d, want 0", len(events.verifiedEvents))
	}
}

func TestVerifyEmailTokenFailures(t *testing.T) {
	users := &mockUserRepository{
		getByEmailResult: &domain.User{ID: "user-1", Email: "user@example.com"},
	}
	svc, signer := newRegistrationService(users, &mockEventPublisher{})

	crossPurpose, err := signer.Sign("user@example.com", "password-reset-salt")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "garbage"},
		{name: "reset token used for verification", token: crossPurpose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.VerifyEmail(context.Background(), tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("VerifyEmail() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	users := &mockUserRepository{
		getByEmailResult: &domain.User{ID: "user-1", Email: "user@example.com"},
	}
	svc, signer := newRegistrationService(users, &mockEventPublisher{})

	issuedAt := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	signer.WithClock(func() time.Time { return issuedAt })
	token, err := signer.Sign("user@example.com", "email-verification-salt")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	signer.WithClock(func() time.Time { return issuedAt.Add(25 * time.Hour) })

	if _, _, err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyEmail() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestVerifyEmailMissingToken(t *testing.T) {
	svc, _ := newRegistrationService(&mockUserRepository{}, &mockEventPublisher{})

	_, _, err := svc.VerifyEmail(context.Background(), "")

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("VerifyEmail() error = %v, want ValidationError", err)
	}
	if validationErr.Message != "Verification token is required" {
		t.Errorf("message = %q, want %q", validationErr.Message, "Verification token is required")
	}
}

func TestVerifyEmailUserGone(t *testing.T) {
	users := &mockUserRepository{getByEmailErr: repository.ErrNotFound}
	svc, signer := newRegistrationService(users, &mockEventPublisher{})

	token, err := signer.Sign("gone@example.com", "email-verification-salt")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, _, err := svc.VerifyEmail(context.Background(), token); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("VerifyEmail() error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestResendVerification(t *testing.T) {
	t.Run("unknown email returns no token", func(t *testing.T) {
		users := &mockUserRepository{getByEmailErr: repository.ErrNotFound}
		svc, _ := newRegistrationService(users, &mockEventPublisher{})

		token, err := svc.ResendVerification(context.Background(), "missing@example.com")
		if err != nil {
			t.Fatalf("ResendVerification() error = %v", err)
		}
		if token != "" {
			t.Errorf("token = %q, want empty for unknown email", token)
		}
	})

	t.Run("verified account returns no token", func(t *testing.T) {
		users := &mockUserRepository{
			getByEmailResult: &domain.User{ID: "user-1", Email: "done@example.com", EmailVerified: true},
		}
		svc, _ := newRegistrationService(users, &mockEventPublisher{})

		token, err := svc.ResendVerification(context.Background(), "done@example.com")
		if err != nil {
			t.Fatalf("ResendVerification() error = %v", err)
		}
		if token != "" {
			t.Errorf("token = %q, want empty for verified account", token)
		}
	})

	t.Run("unverified account gets a fresh token", func(t *testing.T) {
		users := &mockUserRepository{
			getByEmailResult: &domain.User{ID: "user-1", Email: "pending@example.com"},
		}
		svc, signer := newRegistrationService(users, &mockEventPublisher{})

		token, err := svc.ResendVerification(context.Background(), "pending@example.com")
		if err != nil {
			t.Fatalf("ResendVerification() error = %v", err)
		}
		if token == "" {
			t.Fatal("token empty for unverified account")
		}

		email, err := signer.Verify(token, "email-verification-salt", 24*time.Hour)
		if err != nil {
			t.Fatalf("token does not verify: %v", err)
		}
		if email != "pending@example.com" {
			t.Errorf("token email = %q, want %q", email, "pending@example.com")
		}
	})

	t.Run("missing email", func(t *testing.T) {
		svc, _ := newRegistrationService(&mockUserRepository{}, &mockEventPublisher{})

		_, err := svc.ResendVerification(context.Background(), "   ")

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("ResendVerification() error = %v, want ValidationError", err)
		}
		if validationErr.Message != "Email is required" {
			t.Errorf("message = %q, want %q", validationErr.Message, "Email is required")
		}
	})
}

func TestRegisterSurvivesPublishFailure(t *testing.T) {
	users := &mockUserRepository{}
	events := &mockEventPublisher{publishErr: errors.New("broker down")}
	svc, _ := newRegistrationService(users, events)

	user, token, err := svc.Register(context.Background(), "new@example.com", "longenough")
	if err != nil {
		t.Fatalf("Register() error = %v, want nil despite publish failure", err)
	}
	if user == nil || token == "" {
		t.Error("registration result incomplete")
	}
}
