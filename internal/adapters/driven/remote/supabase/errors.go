package supabase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// maxErrorBodyBytes caps how much of a failure response body ends up in
// error messages.
const maxErrorBodyBytes = 200

// statusError converts a non-2xx PostgREST response into exactly one
// domain sentinel. Everything the engine does with a failed remote call
// (retry, park, sign out) keys off this classification.
func statusError(status int, body []byte) error {
	detail := errorDetail(body)
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("remote returned status %d%s: %w", status, detail, domain.ErrAuthExpired)
	case http.StatusForbidden:
		return fmt.Errorf("remote returned status %d%s: %w", status, detail, domain.ErrPermissionDenied)
	case http.StatusTooManyRequests:
		return fmt.Errorf("remote returned status %d%s: %w", status, detail, domain.ErrRateLimited)
	default:
		return fmt.Errorf("remote returned status %d%s: %w", status, detail, domain.ErrRemoteUnavailable)
	}
}

// transportError wraps a failed HTTP round trip. Connection refusals,
// timeouts, and DNS failures all read as the remote being unreachable.
func transportError(err error) error {
	return fmt.Errorf("sending request: %v: %w", err, domain.ErrRemoteUnavailable)
}

// classifyTokenError keeps already-classified sentinel errors intact and
// folds everything else into an expired-auth failure: a token that cannot
// be produced means remote calls cannot be authorized.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, domain.ErrRemoteUnavailable),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrAuthExpired),
		errors.Is(err, domain.ErrPermissionDenied):
		return err
	default:
		return fmt.Errorf("%v: %w", err, domain.ErrAuthExpired)
	}
}

// errorDetail extracts a short printable fragment of a failure body.
func errorDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return ": " + string(body)
}
