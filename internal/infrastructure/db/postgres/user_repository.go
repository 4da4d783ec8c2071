package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/a2tp3/library-api/internal/core/domain"
)

const tableUsers = "users"

var userColumns = []any{"id", "name", "login", "password_hash", "created_at", "updated_at"}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.Insert(tableUsers).
		Rows(goqu.Record{
			"name":          user.Name,
			"login":         user.Login,
			"password_hash": user.PasswordHash,
			"created_at":    user.CreatedAt,
			"updated_at":    user.UpdatedAt,
		}).
		Returning(userColumns...))
	if err != nil {
		return nil, err
	}

	created, err := scanUser(r.pool.QueryRow(ctx, query))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrLoginTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, goqu.Ex{"id": id})
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findOne(ctx, goqu.Ex{"login": login})
}

func (r *UserRepository) findOne(ctx context.Context, where goqu.Ex) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.From(tableUsers).Select(userColumns...).Where(where))
	if err != nil {
		return nil, err
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := toSQL(builder.From(tableUsers).Select(userColumns...).Order(goqu.I("id").Asc()))
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Update(tableUsers).
		Set(goqu.Record{
			"name":          user.Name,
			"login":         user.Login,
			"password_hash": user.PasswordHash,
			"updated_at":    user.UpdatedAt,
		}).
		Where(goqu.Ex{"id": user.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrLoginTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := exec(ctx, r.pool, builder.Delete(tableUsers).Where(goqu.Ex{"id": id}))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
