package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 10
	clientName      = "library-api"
)

// Config describes the Redis instance backing Idempotency-Key replay.
type Config struct {
	Addr     string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// options maps Config onto the client settings. Idempotency lookups sit on
// the loan request path, so reads and writes share the dial timeout.
func (c Config) options() *redis.Options {
	poolSize := c.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	t := c.timeout()
	return &redis.Options{
		Addr:         c.Addr,
		DB:           c.DB,
		ClientName:   clientName,
		PoolSize:     poolSize,
		DialTimeout:  t,
		ReadTimeout:  t,
		WriteTimeout: t,
	}
}

// Connect opens the idempotency store client and pings it once. The returned
// error names the address so a misconfigured REDIS_ADDR is obvious at boot.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: empty address")
	}
	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s (db %d): %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
