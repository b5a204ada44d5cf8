package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arklim/social-platform-auth/internal/core/port"
)

// emailClaims is the payload sealed into an out-of-band proof token. Expiry is
// deliberately not embedded: the acceptable age is a property of the verifying
// flow, so it is enforced against the issue timestamp at verification time.
type emailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenSigner seals email claims into purpose-bound HS256 tokens. The signing
// key for each purpose is derived from the server secret and the purpose salt,
// so a token minted for one purpose never verifies under another even though
// both share the same secret.
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner constructs a signer sealing tokens under secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock overrides the signer's time source for tests.
func (s *TokenSigner) WithClock(clock func() time.Time) *TokenSigner {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Sign serializes the email claim with the current timestamp and signs it with
// the purpose-derived key.
func (s *TokenSigner) Sign(email string, purpose string) (string, error) {
	claims := emailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now().UTC()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.purposeKey(purpose))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Verify returns the email claim carried by token when the signature matches
// the purpose-derived key and the token's age is strictly below maxAge. Every
// failure mode collapses into port.ErrTokenInvalid: callers must not be able
// to tell tampering from expiry.
func (s *TokenSigner) Verify(token string, purpose string, maxAge time.Duration) (string, error) {
	if maxAge <= 0 {
		return "", port.ErrTokenInvalid
	}

	var claims emailClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.purposeKey(purpose), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", port.ErrTokenInvalid
	}

	if claims.Email == "" || claims.IssuedAt == nil {
		return "", port.ErrTokenInvalid
	}

	if s.now().Sub(claims.IssuedAt.Time) >= maxAge {
		return "", port.ErrTokenInvalid
	}

	return claims.Email, nil
}

func (s *TokenSigner) purposeKey(purpose string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}

var _ port.TokenSigner = (*TokenSigner)(nil)
