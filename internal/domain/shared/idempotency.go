package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so redelivered events are skipped
type IdempotencyStore interface {
	// MarkProcessed records an event ID for ttl.
	// Returns true if the ID was newly recorded, false if it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Release forgets an event ID so a redelivery is processed again
	Release(ctx context.Context, eventID string) error

	// Close releases resources held by the store
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
