package shared

import (
	"context"
	"time"
)

// IdempotencyStore holds client-supplied request keys so that a retried
// purchase is not applied twice.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It reports false when an unexpired
	// reservation already exists.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a reservation so the request may be retried.
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig controls Idempotency-Key handling on writes
type IdempotencyConfig struct {
	Enabled bool
	// TTL is how long a reserved key blocks repeats
	TTL time.Duration
}
