package domain

import "time"

// UserRegisteredEvent represents the payload for auth.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	RegisteredAt time.Time
}

// EmailVerifiedEvent represents the payload for auth.user.email_verified messages.
type EmailVerifiedEvent struct {
	EventID    string
	UserID     string
	Email      string
	VerifiedAt time.Time
}

// UserLoggedInEvent represents the payload for auth.user.logged_in messages.
type UserLoggedInEvent struct {
	EventID  string
	UserID   string
	LoggedAt time.Time
}

// PasswordChangedEvent represents the payload for auth.user.password_changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
}
