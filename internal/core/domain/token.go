package domain

// TokenType distinguishes the two halves of a session token pair.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair bundles the bearer tokens issued on a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
