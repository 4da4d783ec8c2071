package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	mongoTC "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// setupTestDB starts a throwaway MongoDB container and creates the indexes.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := mongoTC.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start mongo container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := Connect(ctx, Config{URI: uri, Database: "library_test"})
	require.NoError(t, err, "failed to connect to mongo")
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestMongoStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	categories := NewCategoryRepository(db)
	books := NewBookRepository(db)
	loans := NewLoanRepository(db)

	t.Run("sequences hand out contiguous blocks", func(t *testing.T) {
		seq := newSequences(db)

		first, err := seq.reserve(ctx, "test_seq", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), first)

		next, err := seq.next(ctx, "test_seq")
		require.NoError(t, err)
		assert.Equal(t, int64(4), next)

		_, err = seq.reserve(ctx, "test_seq", 0)
		assert.Error(t, err)
	})

	t.Run("users enforce unique login", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		alice, err := users.Create(ctx, &domain.User{Name: "Alice", Login: "alice", PasswordHash: "h", CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
		assert.Positive(t, alice.ID)

		_, err = users.Create(ctx, &domain.User{Login: "alice", PasswordHash: "h2", CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrLoginTaken)

		bob, err := users.Create(ctx, &domain.User{Name: "Bob", Login: "bob", PasswordHash: "h", CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)
		assert.Greater(t, bob.ID, alice.ID)

		bob.Login = "alice"
		assert.ErrorIs(t, users.Update(ctx, bob), domain.ErrLoginTaken)

		got, err := users.FindByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		require.NoError(t, users.Delete(ctx, alice.ID))
		assert.ErrorIs(t, users.Delete(ctx, alice.ID), domain.ErrUserNotFound)
	})

	t.Run("books carry their category and exact price", func(t *testing.T) {
		c, err := categories.Create(ctx, &domain.Category{Name: "Fiction"})
		require.NoError(t, err)

		b, err := books.Create(ctx, &domain.Book{Title: "Dom Casmurro", CategoryID: c.ID, Price: decimal.RequireFromString("15.50")})
		require.NoError(t, err)

		got, err := books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Fiction", got.Category.Name)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("15.5")), "price %s", got.Price)

		list, err := books.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, list)
		for _, book := range list {
			require.NotNil(t, book.Category, "book %d", book.ID)
		}

		_, err = books.FindByID(ctx, b.ID+1000)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("loans round trip with items and stay owner scoped", func(t *testing.T) {
		c, err := categories.Create(ctx, &domain.Category{Name: "Poetry"})
		require.NoError(t, err)
		a, err := books.Create(ctx, &domain.Book{Title: "A", CategoryID: c.ID, Price: decimal.RequireFromString("10.00")})
		require.NoError(t, err)
		b, err := books.Create(ctx, &domain.Book{Title: "B", CategoryID: c.ID, Price: decimal.RequireFromString("15.50")})
		require.NoError(t, err)

		loanDate := time.Now().UTC().Truncate(time.Millisecond)
		created, err := loans.Create(ctx, &domain.Loan{
			UserID:     7,
			LoanDate:   loanDate,
			DueDate:    domain.DueDateFor(loanDate),
			TotalPrice: decimal.RequireFromString("25.50"),
			Items:      []domain.LoanItem{{BookID: a.ID}, {BookID: b.ID}},
		})
		require.NoError(t, err)
		require.Len(t, created.Items, 2)
		assert.Equal(t, created.Items[0].ID+1, created.Items[1].ID)

		got, err := loans.FindByID(ctx, created.ID, 7)
		require.NoError(t, err)
		assert.True(t, got.LoanDate.Equal(loanDate))
		assert.True(t, got.DueDate.Equal(loanDate.AddDate(0, 0, 7)))
		assert.Equal(t, "25.50", got.TotalPrice.StringFixed(2))
		require.Len(t, got.Items, 2)
		assert.Equal(t, a.ID, got.Items[0].BookID)
		assert.Equal(t, created.ID, got.Items[0].LoanID)
		require.NotNil(t, got.Items[1].Book)
		require.NotNil(t, got.Items[1].Book.Category)
		assert.Equal(t, "Poetry", got.Items[1].Book.Category.Name)

		_, err = loans.FindByID(ctx, created.ID, 8)
		assert.ErrorIs(t, err, domain.ErrLoanNotFound)

		list, err := loans.ListByUser(ctx, 8)
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.ErrorIs(t, loans.Delete(ctx, created.ID, 8), domain.ErrLoanNotFound)
		require.NoError(t, loans.Delete(ctx, created.ID, 7))
		assert.ErrorIs(t, loans.Delete(ctx, created.ID, 7), domain.ErrLoanNotFound)
	})
}
