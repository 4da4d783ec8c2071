package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2tp3/library-api/internal/core/domain"
)

func TestUserRepository_CreateAssignsIDsAndRejectsDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	alice, err := repo.Create(ctx, &domain.User{ID: 99, Name: "Alice", Login: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.ID, "client-supplied id must be ignored")

	bob, err := repo.Create(ctx, &domain.User{Name: "Bob", Login: "bob", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), bob.ID)

	_, err = repo.Create(ctx, &domain.User{Name: "Alice 2", Login: "alice"})
	assert.ErrorIs(t, err, domain.ErrLoginTaken)

	found, err := repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)

	_, err = repo.FindByLogin(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := New().Users()

	u, err := repo.Create(ctx, &domain.User{Name: "Alice", Login: "alice"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Name: "Bob", Login: "bob"})
	require.NoError(t, err)

	u.Name = "Alice Liddell"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.Name)

	u.Login = "bob"
	assert.ErrorIs(t, repo.Update(ctx, u), domain.ErrLoginTaken)

	require.NoError(t, repo.Delete(ctx, u.ID))
	assert.ErrorIs(t, repo.Delete(ctx, u.ID), domain.ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(ctx, u), domain.ErrUserNotFound)
}

func TestBookRepository_ReadsCarryCategory(t *testing.T) {
	ctx := context.Background()
	store := New()

	fiction, err := store.Categories().Create(ctx, &domain.Category{Name: "Fiction"})
	require.NoError(t, err)

	book, err := store.Books().Create(ctx, &domain.Book{
		Title:      "Dom Casmurro",
		CategoryID: fiction.ID,
		Price:      decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	got, err := store.Books().FindByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Fiction", got.Category.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("10")))

	list, err := store.Books().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fiction.ID, list[0].Category.ID)

	// Mutating the returned value must not leak into the store.
	got.Category.Name = "changed"
	again, err := store.Books().FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fiction", again.Category.Name)
}

func TestCategoryRepository_DeleteTwiceIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := New().Categories()

	c, err := repo.Create(ctx, &domain.Category{Name: "Terror"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), domain.ErrCategoryNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 12345), domain.ErrCategoryNotFound)
}

func TestLoanRepository_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	store := New()

	cat, _ := store.Categories().Create(ctx, &domain.Category{Name: "Poetry"})
	book, _ := store.Books().Create(ctx, &domain.Book{Title: "Mensagem", CategoryID: cat.ID, Price: decimal.NewFromInt(5)})

	now := time.Now().UTC()
	loan, err := store.Loans().Create(ctx, &domain.Loan{
		UserID:     1,
		LoanDate:   now,
		DueDate:    domain.DueDateFor(now),
		TotalPrice: book.Price,
		Items:      []domain.LoanItem{{BookID: book.ID}},
	})
	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.Equal(t, loan.ID, loan.Items[0].LoanID)
	assert.NotZero(t, loan.Items[0].ID)

	got, err := store.Loans().FindByID(ctx, loan.ID, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Book)
	assert.Equal(t, "Poetry", got.Items[0].Book.Category.Name)

	_, err = store.Loans().FindByID(ctx, loan.ID, 2)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)

	mine, err := store.Loans().ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := store.Loans().ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	assert.ErrorIs(t, store.Loans().Delete(ctx, loan.ID, 2), domain.ErrLoanNotFound)
	require.NoError(t, store.Loans().Delete(ctx, loan.ID, 1))
	assert.ErrorIs(t, store.Loans().Delete(ctx, loan.ID, 1), domain.ErrLoanNotFound)
}
