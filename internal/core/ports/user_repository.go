package ports

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// UserRepository defines persistence operations for library members.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrLoginTaken when the login is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces the stored user. Returns domain.ErrUserNotFound when the
	// row no longer exists at write time.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
