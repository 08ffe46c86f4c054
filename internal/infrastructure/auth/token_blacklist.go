package auth

import (
	"context"
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

// TokenBlacklist invalidates session tokens before they expire (e.g., on logout)
type TokenBlacklist interface {
	// AddToBlacklist adds a token's JTI. ttl should be the remaining token lifetime.
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	// IsBlacklisted checks if a token's JTI is in the blacklist
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// StateTokenBlacklist keeps revoked JTIs in the console state store, so it is
// backed by Redis or process memory depending on configuration.
type StateTokenBlacklist struct {
	state     shared.StateStore
	keyPrefix string
}

// NewStateTokenBlacklist creates a blacklist on top of a state store
func NewStateTokenBlacklist(state shared.StateStore) *StateTokenBlacklist {
	return &StateTokenBlacklist{state: state, keyPrefix: "token:blacklist:"}
}

type revokedToken struct {
	RevokedAt time.Time `json:"revokedAt"`
}

// AddToBlacklist records the JTI until the token would have expired anyway
func (b *StateTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "jti is required")
	}
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}
	return b.state.Store(ctx, b.keyPrefix+jti, revokedToken{RevokedAt: time.Now().UTC()}, ttl)
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *StateTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var rec revokedToken
	err := b.state.Load(ctx, b.keyPrefix+jti, &rec)
	if err == nil {
		return true, nil
	}
	if shared.IsCode(err, shared.CodeNotFound) {
		return false, nil
	}
	return false, err
}
