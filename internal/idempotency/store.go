package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// keyPrefix namespaces idempotency records in Redis.
	keyPrefix = "idempotency:transfer:"

	// DefaultTTL defines how long a processed key is remembered. A retry inside
	// this window is treated as a duplicate of the original request.
	DefaultTTL = 24 * time.Hour
)

// Store remembers recently processed idempotency keys so that a client retry
// of an already-committed operation can be recognised and refused instead of
// double-applied.
type Store interface {
	// Reserve atomically claims the key. It returns false if the key was
	// already claimed by an earlier request.
	Reserve(ctx context.Context, key string) (bool, error)

	// Release frees a claimed key so a retry may proceed. Called when the
	// operation guarded by the key failed before committing anything.
	Release(ctx context.Context, key string) error
}

// RedisStore implements Store on a Redis SETNX record with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed idempotency store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) Reserve(ctx context.Context, key string) (bool, error) {
	acquired, err := s.client.SetNX(ctx, keyPrefix+key, "processed", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return acquired, nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
