package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/core/domain"
	"github.com/arklim/social-platform-auth/internal/core/port"
	"github.com/arklim/social-platform-auth/internal/infra/config"
)

// schemaVersion tags every envelope so consumers can evolve alongside
// the payload shape.
const schemaVersion = "1.0"

// EventPublisher emits account lifecycle events to Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher wraps producer for use by the services layer.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

// eventEnvelope is the wire format shared by all published events.
type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// envelope fills in identity and provenance around a payload. A blank
// event ID gets a generated UUID; a zero timestamp gets the current
// time.
func (p *EventPublisher) envelope(eventType, eventID, userID string, at time.Time, payload any) eventEnvelope {
	if eventID == "" {
		eventID = uuid.NewString()
	}
	if at.IsZero() {
		at = time.Now()
	}

	return eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		UserID:    userID,
		Timestamp: at.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}
}

// send marshals the envelope and hands it to the async producer, keyed
// by user ID so per-user ordering survives partitioning.
func (p *EventPublisher) send(ctx context.Context, env eventEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(env.EventType),
		Key:   sarama.StringEncoder(env.UserID),
		Value: sarama.ByteEncoder(body),
	}

	select {
	case p.producer.Producer().Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered emits auth.user.registered.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Email        string    `json:"email"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	env := p.envelope("auth.user.registered", event.EventID, event.UserID, event.RegisteredAt, payload)
	return p.send(ctx, env)
}

// PublishEmailVerified emits auth.user.email_verified.
func (p *EventPublisher) PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error {
	payload := struct {
		UserID     string    `json:"user_id"`
		Email      string    `json:"email"`
		VerifiedAt time.Time `json:"verified_at"`
	}{
		UserID:     event.UserID,
		Email:      event.Email,
		VerifiedAt: event.VerifiedAt.UTC(),
	}

	env := p.envelope("auth.user.email_verified", event.EventID, event.UserID, event.VerifiedAt, payload)
	return p.send(ctx, env)
}

// PublishUserLoggedIn emits auth.user.logged_in.
func (p *EventPublisher) PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error {
	payload := struct {
		UserID   string    `json:"user_id"`
		LoggedAt time.Time `json:"logged_at"`
	}{
		UserID:   event.UserID,
		LoggedAt: event.LoggedAt.UTC(),
	}

	env := p.envelope("auth.user.logged_in", event.EventID, event.UserID, event.LoggedAt, payload)
	return p.send(ctx, env)
}

// PublishPasswordChanged emits auth.user.password_changed.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		UserID    string    `json:"user_id"`
		ChangedAt time.Time `json:"changed_at"`
	}{
		UserID:    event.UserID,
		ChangedAt: event.ChangedAt.UTC(),
	}

	env := p.envelope("auth.user.password_changed", event.EventID, event.UserID, event.ChangedAt, payload)
	return p.send(ctx, env)
}
