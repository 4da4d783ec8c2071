package ports

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// UserInput carries the writable user fields. ID is only meaningful on
// replace, where it must match the path id.
type UserInput struct {
	ID       int64
	Name     string
	Login    string
	Password string
}

// UserService defines use-case operations for library members.
type UserService interface {
	Register(ctx context.Context, input UserInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Replace(ctx context.Context, id int64, input UserInput) error
	Delete(ctx context.Context, id int64) error
}
