package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

// RateLimitStore is the attempt-tracking backend for the sliding
// window limiter. Implementations scope attempts by an identifier
// such as "login:192.0.2.1".
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// IdentifierFunc derives the limit scope from a request, typically the
// client IP. Returning false skips the rule for that request.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule is one sliding window: at most Limit attempts per
// Window for each identifier.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter evaluates sliding-window rules against a shared store.
// Store failures never reject traffic; the affected rule is skipped
// for that request.
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter builds a limiter over the given store.
func NewRateLimiter(store RateLimitStore, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: log, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier scopes a rule to the requesting client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// decision is the outcome of evaluating one rule for one request.
type decision struct {
	rule      RateLimitRule
	scope     string
	allowed   bool
	remaining int
	resetAt   time.Time
}

// stricterThan reports whether d should win over other when choosing
// which rule's state the X-RateLimit headers expose.
func (d decision) stricterThan(other decision) bool {
	if d.allowed != other.allowed {
		return !d.allowed
	}
	if d.remaining != other.remaining {
		return d.remaining < other.remaining
	}
	return d.resetAt.Before(other.resetAt)
}

// RateLimit enforces the given rules. Rules missing an identifier
// function, a positive limit, or a positive window are dropped. The
// strictest matching rule populates the X-RateLimit headers, and any
// exhausted rule rejects the request with 429 before the handler runs.
func (rl *RateLimiter) RateLimit(rules ...RateLimitRule) gin.HandlerFunc {
	active := make([]RateLimitRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			continue
		}
		if rule.Name == "" {
			rule.Name = "default"
		}
		active = append(active, rule)
	}

	return func(c *gin.Context) {
		if rl.store == nil || len(active) == 0 {
			c.Next()
			return
		}

		now := rl.now()
		var strictest *decision

		for _, rule := range active {
			scope, ok := rule.Identifier(c)
			if !ok || scope == "" {
				continue
			}

			d, err := rl.evaluate(c.Request.Context(), rule, scope, now)
			if err != nil {
				rl.logger.Warn("rate limit check failed",
					zap.String("rule", rule.Name),
					zap.String("identifier", logger.MaskIP(scope)),
					zap.Error(err))
				continue
			}

			if strictest == nil || d.stricterThan(*strictest) {
				strictest = &d
			}
			if !d.allowed {
				break
			}
		}

		if strictest == nil {
			c.Next()
			return
		}

		writeRateHeaders(c, *strictest, now)
		if !strictest.allowed {
			rl.reject(c, *strictest, now)
			return
		}

		c.Next()
	}
}

// evaluate trims the window, counts prior attempts, and records the
// new one unless the limit is already spent.
func (rl *RateLimiter) evaluate(ctx context.Context, rule RateLimitRule, scope string, now time.Time) (decision, error) {
	key := rule.Name + ":" + scope

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return decision{}, err
	}
	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return decision{}, err
	}
	oldest, found, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return decision{}, err
	}

	d := decision{rule: rule, scope: scope, resetAt: now.Add(rule.Window)}
	if found {
		d.resetAt = oldest.Add(rule.Window)
	}

	if count >= rule.Limit {
		return d, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return decision{}, err
	}

	d.allowed = true
	d.remaining = max(rule.Limit-count-1, 0)
	return d, nil
}

func writeRateHeaders(c *gin.Context, d decision, now time.Time) {
	h := c.Writer.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.rule.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(d.remaining, 0)))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

	if !d.allowed {
		h.Set("Retry-After", strconv.Itoa(retryAfterSeconds(d, now)))
	}
}

func retryAfterSeconds(d decision, now time.Time) int {
	seconds := int(math.Ceil(d.resetAt.Sub(now).Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}

func (rl *RateLimiter) reject(c *gin.Context, d decision, now time.Time) {
	rl.logger.Info("rate limit exceeded",
		zap.String("rule", d.rule.Name),
		zap.String("identifier", logger.MaskIP(d.scope)),
		zap.Int("retry_after_seconds", retryAfterSeconds(d, now)))

	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		ErrorResponse{Error: "Too many requests. Please try again later."})
}
