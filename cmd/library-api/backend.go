package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/a2tp3/library-api/internal/api"
	"github.com/a2tp3/library-api/internal/infrastructure/db/memory"
	"github.com/a2tp3/library-api/internal/infrastructure/db/mongo"
	"github.com/a2tp3/library-api/internal/infrastructure/db/postgres"
	"github.com/a2tp3/library-api/internal/infrastructure/db/redis"
	"github.com/a2tp3/library-api/internal/infrastructure/http/handlers"
	"github.com/a2tp3/library-api/internal/pkg/config"
)

// backend bundles the repositories selected by STORE_DRIVER with the optional
// Redis idempotency store and the readiness probes for both.
type backend struct {
	repos   api.Repositories
	health  *handlers.HealthDependenciesHandler
	closers []func(context.Context) error
}

func (b *backend) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	b := &backend{health: handlers.NewHealthDependenciesHandler()}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, client.Disconnect)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			b.Close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		b.repos = api.Repositories{
			Users:      mongo.NewUserRepository(db),
			Categories: mongo.NewCategoryRepository(db),
			Books:      mongo.NewBookRepository(db),
			Loans:      mongo.NewLoanRepository(db),
		}
		b.health.Add("mongodb", handlers.MongoPinger(db))

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })
		if err := postgres.Migrate(ctx, pool); err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.repos = api.Repositories{
			Users:      postgres.NewUserRepository(pool),
			Categories: postgres.NewCategoryRepository(pool),
			Books:      postgres.NewBookRepository(pool),
			Loans:      postgres.NewLoanRepository(pool),
		}
		b.health.Add("postgres", handlers.PostgresPinger(pool))

	case config.DriverMemory:
		store := memory.New()
		b.repos = api.Repositories{
			Users:      store.Users(),
			Categories: store.Categories(),
			Books:      store.Books(),
			Loans:      store.Loans(),
		}
		log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.IdempotencyEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return rdb.Close() })
		b.repos.Idempotency = redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		b.health.Add("redis", handlers.RedisPinger(rdb))
	}

	log.Info().
		Str("store", cfg.StoreDriver).
		Bool("idempotency", b.repos.Idempotency != nil).
		Msg("backend ready")
	return b, nil
}
