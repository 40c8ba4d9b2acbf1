package ports

import (
	"context"

	"github.com/examready/identity-api/internal/core/domain"
)

// AuthRepository is the identity store. Implementations must enforce a unique
// constraint on username and report a violation from Create as
// domain.ErrUserExists; FindByUsername reports absence as domain.ErrUserNotFound.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Ping(ctx context.Context) error
}
