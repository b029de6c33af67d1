package shared

import (
	"context"
	"time"
)

// IdempotencyStore records processed webhook event identities so redelivered
// events are acknowledged without re-applying their effects. Entries carry a
// TTL; after expiry the database-level idempotent update is the backstop.
type IdempotencyStore interface {
	// MarkProcessed records an event id with a TTL. Returns true when the
	// event was newly recorded, false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether an event id is currently recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Close releases store resources
	Close() error
}
