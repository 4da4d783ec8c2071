package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanDays is the fixed borrowing window applied to every loan.
const LoanDays = 7

// Loan binds a user to a set of borrowed books. TotalPrice is a snapshot of
// the book prices at creation time; loans are never modified afterwards.
type Loan struct {
	ID         int64
	UserID     int64
	LoanDate   time.Time
	DueDate    time.Time
	TotalPrice decimal.Decimal
	Items      []LoanItem
}

// LoanItem links a loan to one borrowed book. Book is populated on reads.
type LoanItem struct {
	ID     int64
	LoanID int64
	BookID int64
	Book   *Book
}

// BookIDs returns the referenced book ids in item order.
func (l *Loan) BookIDs() []int64 {
	ids := make([]int64, len(l.Items))
	for i, it := range l.Items {
		ids[i] = it.BookID
	}
	return ids
}

// DueDateFor returns the due date of a loan taken at loanDate.
func DueDateFor(loanDate time.Time) time.Time {
	return loanDate.AddDate(0, 0, LoanDays)
}
