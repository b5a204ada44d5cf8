package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
)

// sessionClaims carries the token type alongside the registered JWT claims so
// an access token presented where a refresh token is expected (or the other
// way around) is rejected even though both are signed by the same key.
type sessionClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionManager mints and validates the stateless HS256 access/refresh token
// pair. Tokens carry the user ID as subject and expire on their own; there is
// no server-side session state and no revocation list.
type SessionManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewSessionManager constructs a manager signing tokens with secret.
func NewSessionManager(secret string, issuer string, accessTTL time.Duration, refreshTTL time.Duration) *SessionManager {
	return &SessionManager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the manager's time source for tests.
func (m *SessionManager) WithClock(clock func() time.Time) *SessionManager {
	if clock != nil {
		m.now = clock
	}
	return m
}

// IssuePair mints a fresh access and refresh token for userID.
func (m *SessionManager) IssuePair(userID string) (domain.TokenPair, error) {
	access, err := m.IssueAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := m.IssueRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccessToken mints a short-lived access token for userID.
func (m *SessionManager) IssueAccessToken(userID string) (string, error) {
	return m.issue(userID, domain.TokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for userID.
func (m *SessionManager) IssueRefreshToken(userID string) (string, error) {
	return m.issue(userID, domain.TokenTypeRefresh, m.refreshTTL)
}

func (m *SessionManager) issue(userID string, tokenType domain.TokenType, ttl time.Duration) (string, error) {
	issuedAt := m.now().UTC()
	claims := sessionClaims{
		TokenType: string(tokenType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return token, nil
}

// Parse validates token and returns the subject user ID. Expiry is reported
// as port.ErrTokenExpired; every other failure, including a type mismatch,
// comes back as port.ErrTokenInvalid.
func (m *SessionManager) Parse(token string, want domain.TokenType) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", port.ErrTokenExpired
		}
		return "", port.ErrTokenInvalid
	}
	if !parsed.Valid {
		return "", port.ErrTokenInvalid
	}

	if claims.TokenType != string(want) || claims.Subject == "" {
		return "", port.ErrTokenInvalid
	}

	return claims.Subject, nil
}

var _ port.SessionTokens = (*SessionManager)(nil)
