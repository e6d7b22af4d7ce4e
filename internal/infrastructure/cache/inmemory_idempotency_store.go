package cache

import (
	"context"
	"sync"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements IdempotencyStore with a map.
// It is suitable for single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	expiries  map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts a goroutine that
// drops expired keys every interval
func NewInMemoryIdempotencyStore(interval time.Duration) *InMemoryIdempotencyStore {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	store := &InMemoryIdempotencyStore{
		expiries: make(map[string]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(interval)

	return store
}

// Claim records key unless an unexpired claim exists
func (s *InMemoryIdempotencyStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiresAt, ok := s.expiries[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.expiries[key] = now.Add(ttl)
	return true, nil
}

// Release forgets key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, expiresAt := range s.expiries {
		if !now.Before(expiresAt) {
			delete(s.expiries, key)
		}
	}
}

// Size returns the number of held keys
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiries)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
