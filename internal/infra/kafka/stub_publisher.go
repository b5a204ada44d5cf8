package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/logger"
)

// StubPublisher logs lifecycle events instead of producing to Kafka.
// It keeps development and test environments broker-free.
type StubPublisher struct {
	logger *zap.Logger
}

var _ port.EventPublisher = (*StubPublisher)(nil)

// NewStubPublisher builds the logging publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) log(eventType, userID string, at time.Time, extra ...zap.Field) {
	if at.IsZero() {
		at = time.Now()
	}

	fields := append([]zap.Field{
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
	}, extra...)

	p.logger.Info("stub event published", fields...)
}

// PublishUserRegistered logs auth.user.registered.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.log("auth.user.registered", event.UserID, event.RegisteredAt,
		zap.String("email", logger.MaskEmail(event.Email)))
	return nil
}

// PublishEmailVerified logs auth.user.email_verified.
func (p *StubPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	p.log("auth.user.email_verified", event.UserID, event.VerifiedAt,
		zap.String("email", logger.MaskEmail(event.Email)))
	return nil
}

// PublishUserLoggedIn logs auth.user.logged_in.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.log("auth.user.logged_in", event.UserID, event.LoggedAt)
	return nil
}

// PublishPasswordChanged logs auth.user.password_changed.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.log("auth.user.password_changed", event.UserID, event.ChangedAt)
	return nil
}
