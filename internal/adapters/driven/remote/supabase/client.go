package supabase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// clientInfo identifies this client on every remote call.
	clientInfo = "tracklight-cli"
)

// Config holds configuration for the Supabase client.
type Config struct {
	// BaseURL is the Supabase project URL (required),
	// e.g. https://myproject.supabase.co.
	BaseURL string

	// AnonKey is the project's public API key (required).
	AnonKey string

	// InstallID attributes requests to this device in remote logs.
	InstallID string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RateLimit paces requests. Zero values select the default.
	RateLimit RateLimitConfig
}

// Client is the shared HTTP plumbing for the Supabase adapters: headers,
// bearer token injection, rate limiting, and response classification.
type Client struct {
	httpClient *http.Client
	baseURL    string
	anonKey    string
	installID  string
	tokens     oauth2.TokenSource
	limiter    *RateLimiter
}

// NewClient creates a Supabase client. tokens supplies the user's access
// token; nil selects the anonymous key only, which is enough for the auth
// endpoint and the reachability probe.
func NewClient(cfg Config, tokens oauth2.TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("supabase: base URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase: anon key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		anonKey:   cfg.AnonKey,
		installID: cfg.InstallID,
		tokens:    tokens,
		limiter:   NewRateLimiter(cfg.RateLimit),
	}, nil
}

// BaseURL returns the configured project URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends the request with auth headers applied and classifies transport
// failures. The caller owns the response body.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("X-Client-Info", clientInfo)
	if c.installID != "" {
		req.Header.Set("X-Install-Id", c.installID)
	}

	// Row-level security scopes rows by the bearer identity; without a
	// session the anonymous key authorizes only the public surface.
	bearer := c.anonKey
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("acquiring access token: %w", classifyTokenError(err))
		}
		bearer = tok.AccessToken
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfterSeconds(resp))
	}

	return resp, nil
}

// checkResponse drains the body and converts a non-2xx status into its
// domain sentinel. On success the body content is returned.
func checkResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %v: %w", err, domain.ErrRemoteUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

// retryAfterSeconds parses the Retry-After header of a 429 response.
// Returns 0 when absent or unparseable, selecting the default backoff.
func retryAfterSeconds(resp *http.Response) int {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil {
		return 0
	}
	return seconds
}
