package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	ID   int64
	Name string
}

// BookInput carries the writable book fields.
type BookInput struct {
	ID              int64
	Title           string
	Author          string
	Publisher       string
	ISBN            string
	PublicationYear string
	CategoryID      int64
	Price           decimal.Decimal
	Deleted         bool
}

// CategoryService defines use-case operations for categories.
type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Replace(ctx context.Context, id int64, input CategoryInput) error
	Delete(ctx context.Context, id int64) error
}

// BookService defines use-case operations for books.
type BookService interface {
	Create(ctx context.Context, input BookInput) (*domain.Book, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Replace(ctx context.Context, id int64, input BookInput) error
	Delete(ctx context.Context, id int64) error
}
