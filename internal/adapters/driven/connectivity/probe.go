// Package connectivity implements the reachability probe behind the
// connectivity monitor. It issues a cheap authenticated request against the
// Supabase health endpoint; any response proves the network path, so only
// transport failures and server errors count as offline.
package connectivity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// probeTimeout bounds a single check. The monitor polls on an interval;
// a hung probe must not stack checks behind it.
const probeTimeout = 5 * time.Second

// Probe checks reachability of a Supabase project.
type Probe struct {
	client  *http.Client
	url     string
	anonKey string
}

// Compile-time interface check.
var _ driven.ConnectivityProbe = (*Probe)(nil)

// NewProbe creates a probe against the given Supabase project URL.
func NewProbe(baseURL, anonKey string) *Probe {
	return &Probe{
		client: &http.Client{
			Timeout: probeTimeout,
		},
		url:     strings.TrimRight(baseURL, "/") + "/auth/v1/health",
		anonKey: anonKey,
	}
}

// Online reports whether the remote currently answers. A 4xx still counts
// as online: the server was reached, and auth problems are surfaced by the
// sync path itself.
func (p *Probe) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusInternalServerError
}
