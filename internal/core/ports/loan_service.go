package ports

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// CreateLoanInput carries everything needed to open a loan.
type CreateLoanInput struct {
	UserID         int64
	BookIDs        []int64
	IdempotencyKey string
}

// CreateLoanResult is returned by the service after creating a loan.
type CreateLoanResult struct {
	Loan *domain.Loan
	// AlreadyExisted is true when the Idempotency-Key matched an earlier loan.
	AlreadyExisted bool
}

// LoanService defines use-case operations for loans. All operations act on
// behalf of userID and never expose loans owned by someone else.
type LoanService interface {
	Create(ctx context.Context, input CreateLoanInput) (*CreateLoanResult, error)
	Get(ctx context.Context, userID, id int64) (*domain.Loan, error)
	List(ctx context.Context, userID int64) ([]*domain.Loan, error)
	Delete(ctx context.Context, userID, id int64) error
}
