package driving

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// ProgressService is the single entry point for recording and reading
// progress. Every driving adapter (CLI commands, the dashboard, the MCP
// server, the log watcher) talks to the engine through this interface and
// nothing else.
type ProgressService interface {
	// Initialize loads local state into the cache and, when a user session
	// and remote store are present, reconciles with the remote and drains
	// the queue. An empty userID selects local-only mode, a fully supported
	// configuration rather than a degraded fallback.
	Initialize(ctx context.Context, userID string) error

	// Mutate records a progress change. It returns once the synchronous
	// local write completes; the remote write proceeds in the background
	// and never blocks the caller.
	Mutate(ctx context.Context, d domain.Domain, entityID string, value int64) error

	// Read returns the cached record for one entity. Never touches the
	// network. Returns domain.ErrNotFound for entities never mutated.
	Read(d domain.Domain, entityID string) (*domain.ProgressRecord, error)

	// ReadAll returns the cached records for one domain, ordered by
	// entity id.
	ReadAll(d domain.Domain) ([]domain.ProgressRecord, error)

	// Status returns the aggregate sync status snapshot. Individual write
	// failures are never reported; they recover on a later drain.
	Status() domain.SyncStatus

	// RecordState returns a record's position in the write cycle: clean,
	// dirty, or syncing. Records never mutated report clean.
	RecordState(d domain.Domain, entityID string) domain.RecordState

	// Subscribe registers for change notifications. The returned cancel
	// function releases the subscription.
	Subscribe() (<-chan domain.ChangeEvent, func())

	// Reconcile merges remote state into the local snapshot, persists the
	// result, and drains the queue. Returns domain.ErrSyncInProgress if a
	// reconcile is already running, domain.ErrNoRemote in local-only mode.
	Reconcile(ctx context.Context) error

	// ResetAll clears all progress: cache, local store, queue, and the
	// user's remote rows when reachable. The only deletion operation the
	// engine offers.
	ResetAll(ctx context.Context) error

	// Close stops background work and waits for in-flight remote writes.
	Close() error
}
