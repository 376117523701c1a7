package supabase

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
)

// NewSessionTokenSource adapts the session service to oauth2.TokenSource.
// The session service transparently refreshes an expiring token, so every
// Token call yields a usable access token or an error explaining why the
// user is effectively signed out.
func NewSessionTokenSource(ctx context.Context, sessions driving.SessionService) oauth2.TokenSource {
	return &sessionTokenSource{
		sessions: sessions,
		ctx:      ctx,
	}
}

// sessionTokenSource implements oauth2.TokenSource.
type sessionTokenSource struct {
	sessions driving.SessionService
	ctx      context.Context
}

// Token implements oauth2.TokenSource.
func (t *sessionTokenSource) Token() (*oauth2.Token, error) {
	sess, err := t.sessions.Current(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: sess.AccessToken,
		TokenType:   "Bearer",
		Expiry:      sess.ExpiresAt,
	}, nil
}
