package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-auth/internal/core/domain"
)

// UserRepository stores and retrieves user accounts. Lookups return
// repository.ErrNotFound when no row matches, and Create returns
// repository.ErrDuplicate on an email collision.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error
}
