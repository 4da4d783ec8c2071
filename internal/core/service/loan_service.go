package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
)

// LoanService implements the loan workflow.
type LoanService struct {
	loans  ports.LoanRepository
	books  ports.BookRepository
	idem   ports.IdempotencyStore // optional
	logger zerolog.Logger
	now    func() time.Time
}

// NewLoanService returns a LoanService. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewLoanService(loans ports.LoanRepository, books ports.BookRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *LoanService {
	return &LoanService{loans: loans, books: books, idem: idem, logger: logger, now: time.Now}
}

// Create opens a loan for input.UserID covering every book in input.BookIDs.
// All books are resolved before anything is written: the first missing id
// aborts the request with a *domain.BookNotFoundError and nothing is stored.
func (s *LoanService) Create(ctx context.Context, input ports.CreateLoanInput) (*ports.CreateLoanResult, error) {
	if len(input.BookIDs) == 0 {
		return nil, domain.ErrEmptyLoan
	}

	if replay, err := s.replay(ctx, input); err != nil {
		return nil, err
	} else if replay != nil {
		return replay, nil
	}

	loan, err := s.buildLoan(ctx, input.UserID, input.BookIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.loans.Create(ctx, loan)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", input.UserID).Msg("failed to create loan")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, input.UserID, input.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Int64("loan_id", created.ID).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().
		Int64("loan_id", created.ID).
		Int64("user_id", created.UserID).
		Int("books", len(created.Items)).
		Str("total", created.TotalPrice.StringFixed(2)).
		Msg("loan created")

	return &ports.CreateLoanResult{Loan: created}, nil
}

// replay returns the loan a previous request with the same Idempotency-Key
// produced, or nil when there is none.
func (s *LoanService) replay(ctx context.Context, input ports.CreateLoanInput) (*ports.CreateLoanResult, error) {
	if input.IdempotencyKey == "" || s.idem == nil {
		return nil, nil
	}

	loanID, found, err := s.idem.Lookup(ctx, input.UserID, input.IdempotencyKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("idempotency lookup failed, creating anyway")
		return nil, nil
	}
	if !found {
		return nil, nil
	}

	existing, err := s.loans.FindByID(ctx, loanID, input.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			// The earlier loan was cancelled since; treat the key as fresh.
			return nil, nil
		}
		return nil, fmt.Errorf("replay loan %d: %w", loanID, err)
	}

	s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Int64("loan_id", existing.ID).Msg("idempotent replay")
	return &ports.CreateLoanResult{Loan: existing, AlreadyExisted: true}, nil
}

// buildLoan resolves every book and assembles the aggregate in memory.
func (s *LoanService) buildLoan(ctx context.Context, userID int64, bookIDs []int64) (*domain.Loan, error) {
	loanDate := s.now().UTC().Truncate(time.Millisecond)
	loan := &domain.Loan{
		UserID:   userID,
		LoanDate: loanDate,
		DueDate:  domain.DueDateFor(loanDate),
		Items:    make([]domain.LoanItem, 0, len(bookIDs)),
	}

	total := decimal.Zero
	for _, id := range bookIDs {
		book, err := s.books.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrBookNotFound) {
				return nil, &domain.BookNotFoundError{ID: id}
			}
			return nil, fmt.Errorf("resolve book %d: %w", id, err)
		}
		loan.Items = append(loan.Items, domain.LoanItem{BookID: book.ID, Book: book})
		total = total.Add(book.Price)
	}
	loan.TotalPrice = total

	return loan, nil
}

func (s *LoanService) Get(ctx context.Context, userID, id int64) (*domain.Loan, error) {
	return s.loans.FindByID(ctx, id, userID)
}

func (s *LoanService) List(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}

// Delete cancels one of the caller's loans.
func (s *LoanService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.loans.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info().Int64("loan_id", id).Int64("user_id", userID).Msg("loan deleted")
	return nil
}
