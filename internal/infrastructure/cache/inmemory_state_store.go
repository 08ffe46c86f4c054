package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

type document struct {
	raw       []byte
	expiresAt time.Time // zero means no expiry
}

func (d document) expired(now time.Time) bool {
	return !d.expiresAt.IsZero() && now.After(d.expiresAt)
}

// InMemoryStateStore implements StateStore in process memory. Documents are
// stored as JSON so callers never share mutable values with the store.
// Suitable for single-instance deployments and tests.
type InMemoryStateStore struct {
	mu        sync.RWMutex
	docs      map[string]document
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ shared.StateStore = (*InMemoryStateStore)(nil)

// NewInMemoryStateStore creates a store and starts its expiry sweeper.
// Call Close to stop the sweeper.
func NewInMemoryStateStore(sweepInterval time.Duration) *InMemoryStateStore {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &InMemoryStateStore{
		docs:     make(map[string]document),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(sweepInterval)
	return s
}

// Load decodes the document at key into v
func (s *InMemoryStateStore) Load(ctx context.Context, key string, v any) error {
	s.mu.RLock()
	d, ok := s.docs[key]
	s.mu.RUnlock()

	if !ok || d.expired(s.now()) {
		return shared.Errorf(shared.CodeNotFound, "%s not found", key)
	}
	if err := json.Unmarshal(d.raw, v); err != nil {
		return fmt.Errorf("decode state %s: %w", key, err)
	}
	return nil
}

// Store saves v at key. A zero ttl keeps the document until deleted.
func (s *InMemoryStateStore) Store(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	d := document{raw: raw}
	if ttl > 0 {
		d.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.docs[key] = d
	s.mu.Unlock()
	return nil
}

// Delete removes key
func (s *InMemoryStateStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored documents, expired ones included
func (s *InMemoryStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *InMemoryStateStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemoryStateStore) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, d := range s.docs {
		if d.expired(now) {
			delete(s.docs, k)
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (s *InMemoryStateStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}
