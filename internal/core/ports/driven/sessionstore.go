package driven

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// SessionStore durably persists the authenticated session across runs.
type SessionStore interface {
	// Load returns the stored session.
	// Returns domain.ErrNoSession if none is stored.
	Load(ctx context.Context) (*domain.Session, error)

	// Save stores or replaces the session.
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the stored session.
	// Clearing an absent session is not an error.
	Clear(ctx context.Context) error
}
