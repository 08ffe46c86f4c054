package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookingops/console/internal/domain/shared"
)

// RedisStateStore implements StateStore on Redis so that every console
// instance sees the same drafts and sessions
type RedisStateStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ shared.StateStore = (*RedisStateStore)(nil)

// NewRedisStateStore creates a store sharing an existing client
func NewRedisStateStore(client redis.UniversalClient, keyPrefix string) *RedisStateStore {
	if keyPrefix == "" {
		keyPrefix = "console:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix}
}

// Load decodes the document at key into v
func (s *RedisStateStore) Load(ctx context.Context, key string, v any) error {
	raw, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return shared.Errorf(shared.CodeNotFound, "%s not found", key)
	}
	if err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "failed to load state", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode state %s: %w", key, err)
	}
	return nil
}

// Store saves v at key. A zero ttl keeps the document until deleted.
func (s *RedisStateStore) Store(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, raw, ttl).Err(); err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "failed to store state", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *RedisStateStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "failed to delete state", err)
	}
	return nil
}
