package port

import (
	"errors"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

var (
	// ErrTokenInvalid covers malformed, tampered, wrong-purpose, and wrong-type
	// tokens. Callers must not expose a more specific cause to clients.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for a structurally valid session token whose
	// lifetime has elapsed.
	ErrTokenExpired = errors.New("token expired")
)

// PasswordHasher hashes and verifies secrets using the configured algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A malformed encoding
	// verifies as false, never as an error.
	Verify(password string, encoded string) bool
}

// TokenSigner seals an email claim into a purpose-bound, time-limited opaque
// string. Tokens are stateless: nothing is persisted, validity is determined
// entirely by the signature and the embedded issue time.
type TokenSigner interface {
	Sign(email string, purpose string) (string, error)
	// Verify returns the email claim when token was signed for purpose and its
	// age is strictly below maxAge. Every failure mode collapses into
	// ErrTokenInvalid so callers cannot distinguish tampering from expiry.
	Verify(token string, purpose string, maxAge time.Duration) (string, error)
}

// SessionTokens issues and validates bearer session tokens.
type SessionTokens interface {
	IssuePair(userID string) (domain.TokenPair, error)
	IssueAccessToken(userID string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	// Parse returns the user ID carried by token when the signature is valid,
	// the token has not expired, and its type matches want.
	Parse(token string, want domain.TokenType) (string, error)
}
