package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
	"github.com/a2tp3/library-api/internal/infrastructure/db/memory"
)

var discardLogger = zerolog.Nop()

// newTestUserService returns a UserService with the cheapest bcrypt cost so
// tests stay fast.
func newTestUserService(repo ports.UserRepository) *UserService {
	svc := NewUserService(repo, discardLogger)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func mustCategory(t *testing.T, store *memory.Store, name string) *domain.Category {
	t.Helper()
	c, err := store.Categories().Create(context.Background(), &domain.Category{Name: name})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func mustBook(t *testing.T, store *memory.Store, title string, categoryID int64, price string) *domain.Book {
	t.Helper()
	b, err := store.Books().Create(context.Background(), &domain.Book{
		Title:      title,
		CategoryID: categoryID,
		Price:      decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	return b
}
