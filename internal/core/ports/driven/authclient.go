package driven

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// AuthClient talks to the remote auth endpoint. Tracklight only consumes
// authentication: it redeems and refreshes tokens issued elsewhere and never
// implements the signup or password flow.
type AuthClient interface {
	// ExchangeRefreshToken redeems a refresh token for a full session,
	// rotating the token. Used by login and by transparent refresh of an
	// expiring session.
	ExchangeRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
}
