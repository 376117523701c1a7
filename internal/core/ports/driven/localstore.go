package driven

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// LocalStore persists the device's full progress record set.
//
// SaveAll is an atomic full overwrite: LoadAll after a successful SaveAll
// returns an identical snapshot. The engine treats persistence failures as
// degraded durability for the session, never as fatal errors.
type LocalStore interface {
	// LoadAll returns the complete persisted record set.
	LoadAll(ctx context.Context) (domain.Snapshot, error)

	// SaveAll atomically replaces the persisted record set with snap.
	SaveAll(ctx context.Context, snap domain.Snapshot) error
}
