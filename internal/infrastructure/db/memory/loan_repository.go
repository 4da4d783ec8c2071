package memory

import (
	"context"

	"github.com/a2tp3/library-api/internal/core/domain"
)

// LoanRepository implements ports.LoanRepository.
type LoanRepository struct {
	s *Store
}

// Create assigns ids to the loan and its items and stores them in one write.
// Book pointers on the items are kept on the returned loan but not stored.
func (r *LoanRepository) Create(_ context.Context, loan *domain.Loan) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	loan.ID = r.s.nextID("loans")
	stored := *loan
	stored.Items = make([]domain.LoanItem, len(loan.Items))
	for i := range loan.Items {
		loan.Items[i].ID = r.s.nextID("loan_items")
		loan.Items[i].LoanID = loan.ID
		stored.Items[i] = domain.LoanItem{ID: loan.Items[i].ID, LoanID: loan.ID, BookID: loan.Items[i].BookID}
	}
	r.s.loans[loan.ID] = stored

	return loan, nil
}

func (r *LoanRepository) FindByID(_ context.Context, id, userID int64) (*domain.Loan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.loans[id]
	if !ok || l.UserID != userID {
		return nil, domain.ErrLoanNotFound
	}
	return r.s.loanView(l), nil
}

func (r *LoanRepository) ListByUser(_ context.Context, userID int64) ([]*domain.Loan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Loan, 0)
	for _, id := range sortedKeys(r.s.loans) {
		if l := r.s.loans[id]; l.UserID == userID {
			out = append(out, r.s.loanView(l))
		}
	}
	return out, nil
}

func (r *LoanRepository) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.loans[id]
	if !ok || l.UserID != userID {
		return domain.ErrLoanNotFound
	}
	delete(r.s.loans, id)
	return nil
}
