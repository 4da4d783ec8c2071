package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which loan an Idempotency-Key produced.
// Key format: idem:loan:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given Redis client. Entries expire after ttl,
// or after 24h when ttl is not positive.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the loan id remembered for (userID, key).
func (s *IdempotencyStore) Lookup(ctx context.Context, userID int64, key string) (int64, bool, error) {
	v, err := s.client.Get(ctx, s.key(userID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q: %w", v, err)
	}
	return id, true, nil
}

// Remember records loanID for (userID, key), replacing an entry whose loan
// has since been cancelled.
func (s *IdempotencyStore) Remember(ctx context.Context, userID int64, key string, loanID int64) error {
	if err := s.client.Set(ctx, s.key(userID, key), loanID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return fmt.Sprintf("idem:loan:%d:%s", userID, key)
}
