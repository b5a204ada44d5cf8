package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

var (
	// ErrInvalidToken indicates a verification or reset token that is
	// malformed, tampered with, signed for another purpose, or expired. The
	// causes are deliberately indistinguishable.
	ErrInvalidToken = errors.New("token invalid or expired")
	// ErrUserNotFound indicates the account referenced by a valid token no
	// longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports a problem with client-supplied input. Message is
// safe to return verbatim in an HTTP response body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}

var emailFormatRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmailFormat(email string) bool {
	return emailFormatRegex.MatchString(email)
}

// validatePasswordLength counts runes, not bytes, so multibyte passwords are
// measured the way users perceive them.
func validatePasswordLength(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return newValidationError(fmt.Sprintf("Password must be at least %d characters", minLength))
	}
	return nil
}
