package domain

import "time"

// User mirrors the persisted representation in the users table.
type User struct {
	ID              string
	Email           string
	PasswordHash    string
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
}
