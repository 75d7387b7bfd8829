package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events were already handled
type IdempotencyStore interface {
	// MarkProcessed returns true when the event was not seen before
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Forget removes the mark so a failed event can be handled again
	Forget(ctx context.Context, eventID string) error
	Close() error
}

// IdempotencyConfig controls duplicate suppression for event handlers
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps processed IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
