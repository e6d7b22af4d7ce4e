package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied idempotency keys so a retried
// request is recognized instead of executed twice
type IdempotencyStore interface {
	// Claim records key for ttl. It returns false when the key is already held.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release forgets key so that the request may be retried
	Release(ctx context.Context, key string) error

	// Close releases the resources held by the store
	Close() error
}

// DefaultIdempotencyTTL is how long a claimed key is held when no TTL is configured
const DefaultIdempotencyTTL = 24 * time.Hour
