package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// AuthClient implements token redemption against the GoTrue auth endpoint.
// It always authenticates with the anonymous key; the refresh token in the
// request body carries the user identity.
type AuthClient struct {
	client *Client
	clock  driven.Clock
}

// Compile-time interface check.
var _ driven.AuthClient = (*AuthClient)(nil)

// NewAuthClient creates an auth client over the given Supabase client. The
// clock anchors token expiry, which the endpoint reports as a relative
// lifetime.
func NewAuthClient(client *Client, clock driven.Clock) *AuthClient {
	return &AuthClient{
		client: client,
		clock:  clock,
	}
}

// tokenRequest is the refresh grant body.
type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// tokenResponse is the auth endpoint's session payload.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         tokenUser `json:"user"`
}

type tokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ExchangeRefreshToken redeems a refresh token for a full session. The
// endpoint rotates the refresh token; the returned session carries the new
// one.
func (a *AuthClient) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if err := a.client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(tokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := a.client.baseURL + "/auth/v1/token?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.client.anonKey)
	req.Header.Set("Authorization", "Bearer "+a.client.anonKey)
	req.Header.Set("X-Client-Info", clientInfo)

	// The session token source funnels refreshes through this method, so it
	// must not go through the shared request path that acquires a token.
	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %v: %w", err, domain.ErrRemoteUnavailable)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		a.client.limiter.RecordRateLimitError(retryAfterSeconds(resp))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, authStatusError(resp.StatusCode, respBody)
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, fmt.Errorf("decoding response: %v: %w", err, domain.ErrRemoteUnavailable)
	}
	if token.AccessToken == "" || token.RefreshToken == "" || token.User.ID == "" {
		return nil, fmt.Errorf("response is missing session fields: %w", domain.ErrRemoteUnavailable)
	}

	sess := &domain.Session{
		UserID:       token.User.ID,
		Email:        token.User.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if token.ExpiresIn > 0 {
		sess.ExpiresAt = a.clock.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return sess, nil
}

// authStatusError classifies a non-200 auth response. The endpoint reports
// a rejected or revoked refresh token as 400, so client errors map to an
// expired auth rather than an unreachable remote.
func authStatusError(status int, body []byte) error {
	detail := errorDetail(body)
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("auth endpoint returned status %d%s: %w", status, detail, domain.ErrRateLimited)
	case status >= 500:
		return fmt.Errorf("auth endpoint returned status %d%s: %w", status, detail, domain.ErrRemoteUnavailable)
	default:
		return fmt.Errorf("auth endpoint returned status %d%s: %w", status, detail, domain.ErrAuthExpired)
	}
}
