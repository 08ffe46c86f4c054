package cache

import (
	"context"
	"time"

	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/shared"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps console sessions in a StateStore until they expire
type SessionStore struct {
	state shared.StateStore
	now   func() time.Time
}

var _ identity.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store on top of state
func NewSessionStore(state shared.StateStore) *SessionStore {
	return &SessionStore{state: state, now: time.Now}
}

// Save stores s until s.ExpiresAt
func (st *SessionStore) Save(ctx context.Context, s *identity.Session) error {
	ttl := s.ExpiresAt.Sub(st.now())
	if ttl <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "session already expired")
	}
	return st.state.Store(ctx, sessionKeyPrefix+s.ID, s, ttl)
}

// Get returns the session or an error matching ErrUnauthorized
func (st *SessionStore) Get(ctx context.Context, id string) (*identity.Session, error) {
	var s identity.Session
	if err := st.state.Load(ctx, sessionKeyPrefix+id, &s); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session expired")
		}
		return nil, err
	}
	if !s.ExpiresAt.After(st.now()) {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session expired")
	}
	return &s, nil
}

// Delete ends the session
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	return st.state.Delete(ctx, sessionKeyPrefix+id)
}
