package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-auth/internal/core/port"
)

// SlidingWindowConfig tunes attempt storage.
type SlidingWindowConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// RateLimitRepository keeps request attempts in Redis sorted sets, one
// set per identifier with members scored by nanosecond timestamp, so
// window queries are plain score-range operations.
type RateLimitRepository struct {
	client *redis.Client
	cfg    SlidingWindowConfig
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)

var errWindowNotPositive = errors.New("window must be positive")

// NewRateLimitRepository builds the repository; an empty key prefix
// defaults to auth:ratelimit.
func NewRateLimitRepository(client *redis.Client, cfg SlidingWindowConfig) *RateLimitRepository {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "auth:ratelimit"
	}
	return &RateLimitRepository{client: client, cfg: cfg}
}

// RecordAttempt appends at to the identifier's set and refreshes the
// key TTL in the same round trip.
func (r *RateLimitRepository) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := r.key(identifier)
	nanos := at.UnixNano()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(nanos), Member: nanos})
		if r.cfg.TTL > 0 {
			pipe.Expire(ctx, key, r.cfg.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record attempt: %w", err)
	}
	return nil
}

// CountAttempts counts attempts inside the window ending at reference.
func (r *RateLimitRepository) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if window <= 0 {
		return 0, errWindowNotPositive
	}

	lo, hi := windowRange(window, reference)
	count, err := r.client.ZCount(ctx, r.key(identifier), lo, hi).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcount: %w", err)
	}
	return int(count), nil
}

// TrimWindow drops attempts older than the window.
func (r *RateLimitRepository) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	if window <= 0 {
		return errWindowNotPositive
	}

	lo, _ := windowRange(window, reference)
	if err := r.client.ZRemRangeByScore(ctx, r.key(identifier), "-inf", lo).Err(); err != nil {
		return fmt.Errorf("redis zremrangebyscore: %w", err)
	}
	return nil
}

// OldestAttempt returns the earliest attempt still inside the window,
// reporting false when the window is empty.
func (r *RateLimitRepository) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if window <= 0 {
		return time.Time{}, false, errWindowNotPositive
	}

	lo, hi := windowRange(window, reference)
	values, err := r.client.ZRangeByScore(ctx, r.key(identifier), &redis.ZRangeBy{
		Min:   lo,
		Max:   hi,
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis zrangebyscore: %w", err)
	}
	if len(values) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse attempt timestamp: %w", err)
	}
	return time.Unix(0, nanos), true, nil
}

func (r *RateLimitRepository) key(identifier string) string {
	return r.cfg.KeyPrefix + ":" + identifier
}

func windowRange(window time.Duration, reference time.Time) (string, string) {
	return score(reference.Add(-window)), score(reference)
}

func score(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano()), 'f', -1, 64)
}
