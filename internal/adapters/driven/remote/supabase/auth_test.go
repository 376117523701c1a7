package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

const tokenJSON = `{
	"access_token": "access-2",
	"token_type": "bearer",
	"expires_in": 3600,
	"refresh_token": "refresh-2",
	"user": {"id": "user-1", "email": "player@example.com"}
}`

func TestAuthClient_ExchangeRefreshToken(t *testing.T) {
	var gotMethod, gotPath, gotGrant, gotAuth, gotAPIKey string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotGrant = r.URL.Query().Get("grant_type")
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tokenJSON)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, nil), clock)

	sess, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/auth/v1/token", gotPath)
	assert.Equal(t, "refresh_token", gotGrant)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.JSONEq(t, `{"refresh_token":"refresh-1"}`, string(gotBody))

	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "player@example.com", sess.Email)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, "refresh-2", sess.RefreshToken)
	assert.Equal(t, clock.now.Add(time.Hour), sess.ExpiresAt)
}

func TestAuthClient_ExchangeRefreshToken_UsesAnonymousKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, tokenJSON)
	}))
	defer server.Close()

	// A configured token source must not be consulted: acquiring a token
	// goes through the session service, which lands back here.
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "user-access"})
	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, tokens), clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestAuthClient_ExchangeRefreshToken_NonExpiringToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "access-2",
			"refresh_token": "refresh-2",
			"user": {"id": "user-1"}
		}`)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, nil), clock)

	sess, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.IsZero())
}

func TestAuthClient_ExchangeRefreshToken_InvalidGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Invalid Refresh Token"}`)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, nil), clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrAuthExpired)
	assert.Contains(t, err.Error(), "400")
}

func TestAuthClient_ExchangeRefreshToken_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	client := newTestClient(t, server.URL, nil)
	auth := NewAuthClient(client, clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.False(t, client.limiter.Allow())
}

func TestAuthClient_ExchangeRefreshToken_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, nil), clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestAuthClient_ExchangeRefreshToken_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, serverURL, nil), clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestAuthClient_ExchangeRefreshToken_MissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	clock := &stubClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	auth := NewAuthClient(newTestClient(t, server.URL, nil), clock)

	_, err := auth.ExchangeRefreshToken(context.Background(), "refresh-1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "missing session fields")
}
