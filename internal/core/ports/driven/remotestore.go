package driven

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// RemoteStore adapts the multi-device, multi-user authoritative store.
//
// Implementations normalise every transport failure into one of the
// domain's remote sentinel errors (ErrRemoteUnavailable, ErrRateLimited,
// ErrAuthExpired, ErrPermissionDenied). No other error crosses this
// boundary, so callers classify with errors.Is and domain.Recoverable.
type RemoteStore interface {
	// FetchUserRecords returns the user's records for one domain,
	// ownership-scoped by the remote's access policy.
	FetchUserRecords(ctx context.Context, userID string, d domain.Domain) ([]domain.ProgressRecord, error)

	// UpsertRecords inserts or updates records keyed by (user, entity).
	// Idempotent: calling twice with an identical payload is safe.
	UpsertRecords(ctx context.Context, userID string, records []domain.ProgressRecord) error

	// DeleteUserRecords removes all of the user's rows for one domain.
	// Used only by the full progress reset.
	DeleteUserRecords(ctx context.Context, userID string, d domain.Domain) error
}
