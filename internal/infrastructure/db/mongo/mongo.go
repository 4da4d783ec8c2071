package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "library-api"
)

// Config captures the settings for the default document store.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientOptions applies the URI and bounds server selection by the connect
// timeout so an unreachable MONGO_URI fails fast at boot.
func (c Config) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(c.timeout()).
		SetRetryWrites(true)
}

// Connect opens the client, pings the primary and returns the library
// database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo: empty database name")
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, cfg.clientOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping (database %q): %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := NewBookRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("book indexes: %w", err)
	}
	if err := NewLoanRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("loan indexes: %w", err)
	}
	return nil
}
