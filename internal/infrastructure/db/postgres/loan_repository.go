package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/a2tp3/library-api/internal/core/domain"
)

const (
	tableLoans     = "loans"
	tableLoanItems = "loan_items"
)

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create inserts the loan and its items in one transaction.
func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin loan tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, err := toSQL(builder.Insert(tableLoans).
		Rows(goqu.Record{
			"user_id":     loan.UserID,
			"loan_date":   loan.LoanDate,
			"due_date":    loan.DueDate,
			"total_price": loan.TotalPrice.String(),
		}).
		Returning("id"))
	if err != nil {
		return nil, err
	}
	var loanID int64
	if err := tx.QueryRow(ctx, query).Scan(&loanID); err != nil {
		return nil, fmt.Errorf("insert loan: %w", err)
	}

	for i := range loan.Items {
		query, err := toSQL(builder.Insert(tableLoanItems).
			Rows(goqu.Record{"loan_id": loanID, "book_id": loan.Items[i].BookID}).
			Returning("id"))
		if err != nil {
			return nil, err
		}
		if err := tx.QueryRow(ctx, query).Scan(&loan.Items[i].ID); err != nil {
			return nil, fmt.Errorf("insert loan item: %w", err)
		}
		loan.Items[i].LoanID = loanID
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit loan tx: %w", err)
	}
	loan.ID = loanID
	return loan, nil
}

func selectLoans() *goqu.SelectDataset {
	return builder.From(tableLoans).
		Select("id", "user_id", "loan_date", "due_date", goqu.L("total_price::text")).
		Order(goqu.I("id").Asc())
}

func (r *LoanRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	loans, err := r.query(ctx, selectLoans().Where(goqu.Ex{"id": id, "user_id": userID}))
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, domain.ErrLoanNotFound
	}
	return loans[0], nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.query(ctx, selectLoans().Where(goqu.Ex{"user_id": userID}))
}

// Delete removes the loan; its items go with it through ON DELETE CASCADE.
func (r *LoanRepository) Delete(ctx context.Context, id, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Delete(tableLoans).Where(goqu.Ex{"id": id, "user_id": userID}))
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if n == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// query loads loans, then their items, then the referenced books.
func (r *LoanRepository) query(ctx context.Context, stmt *goqu.SelectDataset) ([]*domain.Loan, error) {
	query, err := toSQL(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}
	loans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Loan, error) {
		var (
			l     domain.Loan
			total string
		)
		if err := row.Scan(&l.ID, &l.UserID, &l.LoanDate, &l.DueDate, &total); err != nil {
			return nil, err
		}
		var err error
		if l.TotalPrice, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("loan %d total: %w", l.ID, err)
		}
		l.LoanDate = l.LoanDate.UTC()
		l.DueDate = l.DueDate.UTC()
		l.Items = make([]domain.LoanItem, 0)
		return &l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan loans: %w", err)
	}
	if len(loans) == 0 {
		return loans, nil
	}

	byID := make(map[int64]*domain.Loan, len(loans))
	loanIDs := make([]int64, 0, len(loans))
	for _, l := range loans {
		byID[l.ID] = l
		loanIDs = append(loanIDs, l.ID)
	}

	items, err := r.items(ctx, loanIDs)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return loans, nil
	}

	bookIDs := make([]int64, 0, len(items))
	for _, it := range items {
		bookIDs = append(bookIDs, it.BookID)
	}
	books, err := queryBooks(ctx, r.pool, selectBooks().Where(goqu.I("b.id").In(bookIDs)))
	if err != nil {
		return nil, err
	}
	booksByID := make(map[int64]*domain.Book, len(books))
	for _, b := range books {
		booksByID[b.ID] = b
	}

	for _, it := range items {
		it.Book = booksByID[it.BookID]
		l := byID[it.LoanID]
		l.Items = append(l.Items, it)
	}
	return loans, nil
}

func (r *LoanRepository) items(ctx context.Context, loanIDs []int64) ([]domain.LoanItem, error) {
	query, err := toSQL(builder.From(tableLoanItems).
		Select("id", "loan_id", "book_id").
		Where(goqu.C("loan_id").In(loanIDs)).
		Order(goqu.I("id").Asc()))
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find loan items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LoanItem, error) {
		var it domain.LoanItem
		err := row.Scan(&it.ID, &it.LoanID, &it.BookID)
		return it, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("scan loan items: %w", err)
	}
	return items, nil
}
