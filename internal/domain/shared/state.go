package shared

import (
	"context"
	"time"
)

// StateStore keeps short-lived console state (drafts, edit sessions, login
// sessions, lookup lists) as JSON documents. Load returns an error matching
// ErrNotFound when the key is missing or expired.
type StateStore interface {
	Load(ctx context.Context, key string, v any) error
	Store(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
