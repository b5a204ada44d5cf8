package port

import (
	"context"
	"time"
)

// RateLimitStore persists request attempts for sliding-window limits.
// Attempts are scoped by key; window queries take the clock reading
// explicitly so callers control time in tests.
type RateLimitStore interface {
	// TrimWindow discards attempts that fell out of the window as of now.
	TrimWindow(ctx context.Context, key string, window time.Duration, now time.Time) error
	// CountAttempts reports attempts within the window ending at now.
	CountAttempts(ctx context.Context, key string, window time.Duration, now time.Time) (int, error)
	// RecordAttempt stores a new attempt stamped at.
	RecordAttempt(ctx context.Context, key string, at time.Time) error
	// OldestAttempt returns the earliest attempt inside the window, or
	// false when none remain.
	OldestAttempt(ctx context.Context, key string, window time.Duration, now time.Time) (time.Time, bool, error)
}
