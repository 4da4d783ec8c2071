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
	tableCategories = "categories"
	tableBooks      = "books"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.Insert(tableCategories).
		Rows(goqu.Record{"name": category.Name}).
		Returning("id", "name"))
	if err != nil {
		return nil, err
	}

	var c domain.Category
	if err := r.pool.QueryRow(ctx, query).Scan(&c.ID, &c.Name); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.From(tableCategories).Select("id", "name").Where(goqu.Ex{"id": id}))
	if err != nil {
		return nil, err
	}

	var c domain.Category
	if err := r.pool.QueryRow(ctx, query).Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.From(tableCategories).Select("id", "name").Order(goqu.I("id").Asc()))
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Update(tableCategories).
		Set(goqu.Record{"name": category.Name}).
		Where(goqu.Ex{"id": category.ID}))
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Delete(tableCategories).Where(goqu.Ex{"id": id}))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// BookRepository stores books; every read joins the book's category.
type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func bookRecord(b *domain.Book) goqu.Record {
	return goqu.Record{
		"title":            b.Title,
		"author":           b.Author,
		"publisher":        b.Publisher,
		"isbn":             b.ISBN,
		"publication_year": b.PublicationYear,
		"category_id":      b.CategoryID,
		"price":            b.Price.String(),
		"deleted":          b.Deleted,
	}
}

// selectBooks selects books with their category. Prices are read as text so
// they convert to decimal without loss.
func selectBooks() *goqu.SelectDataset {
	return builder.From(goqu.T(tableBooks).As("b")).
		LeftJoin(goqu.T(tableCategories).As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.category_id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.publisher"),
			goqu.I("b.isbn"), goqu.I("b.publication_year"), goqu.I("b.category_id"),
			goqu.L("b.price::text"), goqu.I("b.deleted"),
			goqu.I("c.id"), goqu.I("c.name"),
		).
		Order(goqu.I("b.id").Asc())
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var (
		b            domain.Book
		price        string
		categoryID   *int64
		categoryName *string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Publisher, &b.ISBN, &b.PublicationYear,
		&b.CategoryID, &price, &b.Deleted, &categoryID, &categoryName)
	if err != nil {
		return nil, err
	}
	if b.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("book %d price: %w", b.ID, err)
	}
	if categoryID != nil {
		b.Category = &domain.Category{ID: *categoryID}
		if categoryName != nil {
			b.Category.Name = *categoryName
		}
	}
	return &b, nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.Insert(tableBooks).Rows(bookRecord(book)).Returning("id"))
	if err != nil {
		return nil, err
	}

	created := *book
	created.Category = nil
	if err := r.pool.QueryRow(ctx, query).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return &created, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(selectBooks().Where(goqu.I("b.id").Eq(id)))
	if err != nil {
		return nil, err
	}

	b, err := scanBook(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return queryBooks(ctx, r.pool, selectBooks())
}

func queryBooks(ctx context.Context, q querier, stmt *goqu.SelectDataset) ([]*domain.Book, error) {
	query, err := toSQL(stmt)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Update(tableBooks).
		Set(bookRecord(book)).
		Where(goqu.Ex{"id": book.ID}))
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Delete(tableBooks).Where(goqu.Ex{"id": id}))
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}
