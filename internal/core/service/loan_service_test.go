package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/ports"
	"github.com/a2tp3/library-api/internal/infrastructure/db/memory"
)

type idemKey struct {
	userID int64
	key    string
}

type stubIdempotency struct {
	seen      map[idemKey]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{seen: make(map[idemKey]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, userID int64, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.seen[idemKey{userID, key}]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, userID int64, key string, loanID int64) error {
	s.seen[idemKey{userID, key}] = loanID
	return nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 30, 45, 123456789, time.UTC)

func newTestLoanService(store *memory.Store, idem ports.IdempotencyStore) *LoanService {
	svc := NewLoanService(store.Loans(), store.Books(), idem, discardLogger)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestLoanService_Create_SumsPricesAndSetsDueDate(t *testing.T) {
	store := memory.New()
	cat := mustCategory(t, store, "Fiction")
	a := mustBook(t, store, "A", cat.ID, "10.00")
	b := mustBook(t, store, "B", cat.ID, "15.50")
	svc := newTestLoanService(store, nil)

	res, err := svc.Create(context.Background(), ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID, b.ID}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	loan := res.Loan

	if loan.TotalPrice.StringFixed(2) != "25.50" {
		t.Fatalf("expected total 25.50, got %s", loan.TotalPrice.StringFixed(2))
	}
	if want := fixedNow.Truncate(time.Millisecond); !loan.LoanDate.Equal(want) {
		t.Fatalf("expected loan date %v, got %v", want, loan.LoanDate)
	}
	if !loan.DueDate.Equal(loan.LoanDate.AddDate(0, 0, 7)) {
		t.Fatalf("due date must be loan date + 7 days, got %v -> %v", loan.LoanDate, loan.DueDate)
	}
	if len(loan.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loan.Items))
	}
	for i, it := range loan.Items {
		if it.LoanID != loan.ID || it.ID == 0 {
			t.Fatalf("item %d not linked to loan: %+v", i, it)
		}
		if it.Book == nil || it.Book.Category == nil {
			t.Fatalf("item %d missing book or category", i)
		}
	}
	if res.AlreadyExisted {
		t.Fatalf("fresh loan must not be flagged as replay")
	}
}

func TestLoanService_Create_DuplicateBookCountsTwice(t *testing.T) {
	store := memory.New()
	a := mustBook(t, store, "A", mustCategory(t, store, "c").ID, "7.25")
	svc := newTestLoanService(store, nil)

	res, err := svc.Create(context.Background(), ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID, a.ID}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.Loan.TotalPrice.StringFixed(2) != "14.50" {
		t.Fatalf("expected 14.50, got %s", res.Loan.TotalPrice)
	}
}

func TestLoanService_Create_MissingBookPersistsNothing(t *testing.T) {
	store := memory.New()
	a := mustBook(t, store, "A", mustCategory(t, store, "c").ID, "1")
	svc := newTestLoanService(store, nil)

	_, err := svc.Create(context.Background(), ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID, 404, 405}})

	var notFound *domain.BookNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *BookNotFoundError, got %v", err)
	}
	if notFound.ID != 404 {
		t.Fatalf("expected first missing id 404, got %d", notFound.ID)
	}
	if !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("BookNotFoundError should match ErrBookNotFound")
	}

	loans, _ := svc.List(context.Background(), 1)
	if len(loans) != 0 {
		t.Fatalf("expected no loans persisted, got %d", len(loans))
	}
}

func TestLoanService_Create_EmptyRequest(t *testing.T) {
	svc := newTestLoanService(memory.New(), nil)

	if _, err := svc.Create(context.Background(), ports.CreateLoanInput{UserID: 1}); err != domain.ErrEmptyLoan {
		t.Fatalf("expected ErrEmptyLoan, got %v", err)
	}
}

func TestLoanService_Create_IdempotentReplay(t *testing.T) {
	store := memory.New()
	a := mustBook(t, store, "A", mustCategory(t, store, "c").ID, "3")
	idem := newStubIdempotency()
	svc := newTestLoanService(store, idem)
	ctx := context.Background()

	input := ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID}, IdempotencyKey: "k-1"}
	first, err := svc.Create(ctx, input)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(ctx, input)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExisted || second.Loan.ID != first.Loan.ID {
		t.Fatalf("expected replay of loan %d, got %+v", first.Loan.ID, second)
	}

	// Same key from another user is a different request.
	other, err := svc.Create(ctx, ports.CreateLoanInput{UserID: 2, BookIDs: []int64{a.ID}, IdempotencyKey: "k-1"})
	if err != nil {
		t.Fatalf("other user create: %v", err)
	}
	if other.AlreadyExisted || other.Loan.ID == first.Loan.ID {
		t.Fatalf("key must be scoped per user")
	}

	// A cancelled loan frees its key.
	if err := svc.Delete(ctx, 1, first.Loan.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := svc.Create(ctx, input)
	if err != nil {
		t.Fatalf("third create: %v", err)
	}
	if third.AlreadyExisted || third.Loan.ID == first.Loan.ID {
		t.Fatalf("expected a fresh loan after cancellation")
	}
}

func TestLoanService_Create_LookupFailureStillCreates(t *testing.T) {
	store := memory.New()
	a := mustBook(t, store, "A", mustCategory(t, store, "c").ID, "3")
	idem := newStubIdempotency()
	idem.lookupErr = errors.New("redis down")
	svc := newTestLoanService(store, idem)

	res, err := svc.Create(context.Background(), ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID}, IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.AlreadyExisted {
		t.Fatalf("unexpected replay")
	}
}

func TestLoanService_OwnerScoping(t *testing.T) {
	store := memory.New()
	a := mustBook(t, store, "A", mustCategory(t, store, "c").ID, "3")
	svc := newTestLoanService(store, nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, ports.CreateLoanInput{UserID: 1, BookIDs: []int64{a.ID}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, 2, res.Loan.ID); err != domain.ErrLoanNotFound {
		t.Fatalf("expected ErrLoanNotFound for foreign loan, got %v", err)
	}
	if loans, _ := svc.List(ctx, 2); len(loans) != 0 {
		t.Fatalf("foreign user must not list the loan")
	}
	if err := svc.Delete(ctx, 2, res.Loan.ID); err != domain.ErrLoanNotFound {
		t.Fatalf("expected ErrLoanNotFound on foreign delete, got %v", err)
	}

	got, err := svc.Get(ctx, 1, res.Loan.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Book == nil || got.Items[0].Book.Category == nil {
		t.Fatalf("loan read must load items with book and category: %+v", got.Items)
	}

	if err := svc.Delete(ctx, 1, res.Loan.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := svc.Delete(ctx, 1, res.Loan.ID); err != domain.ErrLoanNotFound {
		t.Fatalf("expected ErrLoanNotFound on repeated delete, got %v", err)
	}
}
