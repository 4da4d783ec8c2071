package ports

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// LoanRepository persists loan aggregates. A loan and its items are always
// written as one unit. Every read is scoped to the owning user: a loan owned
// by someone else is reported as domain.ErrLoanNotFound.
type LoanRepository interface {
	// Create stores the loan with its items and returns it with IDs assigned.
	Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error)
	// FindByID returns the loan with items, books and categories loaded.
	FindByID(ctx context.Context, id, userID int64) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error)
	Delete(ctx context.Context, id, userID int64) error
}

// IdempotencyStore remembers which loan a client-supplied Idempotency-Key
// produced, so a retried request can be answered without creating a second
// loan.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID int64, key string) (loanID int64, found bool, err error)
	Remember(ctx context.Context, userID int64, key string, loanID int64) error
}
