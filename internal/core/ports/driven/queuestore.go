package driven

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// QueueStore durably persists pending remote writes.
//
// Entries are keyed by record id; the queue is a set, not a log. Upsert
// replaces any existing entry wholesale, which is how "newest payload
// supersedes" is enforced at the storage level.
type QueueStore interface {
	// Upsert stores or replaces the entry for its record id.
	Upsert(ctx context.Context, entry domain.SyncQueueEntry) error

	// Get retrieves the entry for a record id.
	// Returns domain.ErrNotFound if none is queued.
	Get(ctx context.Context, id domain.RecordID) (*domain.SyncQueueEntry, error)

	// Delete removes the entry for a record id.
	// Deleting an absent entry is not an error.
	Delete(ctx context.Context, id domain.RecordID) error

	// List returns all queued entries.
	List(ctx context.Context) ([]domain.SyncQueueEntry, error)

	// Depth returns the number of queued entries.
	Depth(ctx context.Context) (int, error)

	// Clear removes every entry. Used only by the full progress reset.
	Clear(ctx context.Context) error
}
