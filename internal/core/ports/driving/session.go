package driving

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// SessionService manages the stored remote session.
type SessionService interface {
	// Login redeems a refresh token, stores the resulting session, and
	// returns it.
	Login(ctx context.Context, refreshToken string) (*domain.Session, error)

	// Logout clears the stored session. The engine falls back to
	// local-only mode; queued writes stay queued for a later login.
	Logout(ctx context.Context) error

	// Current returns the active session, transparently refreshing an
	// expiring token. Returns domain.ErrNoSession when logged out.
	Current(ctx context.Context) (*domain.Session, error)

	// UserID returns the current user id, or empty when logged out.
	UserID(ctx context.Context) string
}
