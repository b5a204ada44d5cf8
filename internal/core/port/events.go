package port

import (
	"context"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// EventPublisher emits account lifecycle events for downstream
// consumers. Implementations must not block the calling request
// beyond the supplied context.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
}
