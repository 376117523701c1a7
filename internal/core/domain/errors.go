package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownDomain indicates a progress domain that is not registered.
	ErrUnknownDomain = errors.New("unknown progress domain")

	// ErrInvalidValue indicates a value outside the domain's accepted range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidEntityID indicates an empty or malformed entity identifier.
	ErrInvalidEntityID = errors.New("invalid entity id")

	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed indicates the progress store has been closed.
	ErrClosed = errors.New("progress store closed")

	// ErrSyncInProgress indicates a reconcile is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Remote Errors.
	//
	// Every failure crossing the remote adapter boundary wraps exactly one
	// of these; nothing else propagates past the adapter.

	// ErrRemoteUnavailable indicates the remote store could not be reached.
	// Transient: queued writes are retried on the next drain trigger.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrRateLimited indicates the remote rejected the call for rate reasons.
	// Transient, same handling as ErrRemoteUnavailable.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthExpired indicates the session token expired and refresh failed.
	// The engine falls back to local-only; queued entries stay queued until
	// a later login succeeds.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrPermissionDenied indicates the remote rejected a write for
	// ownership reasons. Permanent: the queue entry is marked non-retryable.
	ErrPermissionDenied = errors.New("permission denied")

	// Session Errors.

	// ErrNotAuthenticated indicates no user session is active.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoSession indicates no stored session exists.
	ErrNoSession = errors.New("no session")

	// ErrNoRemote indicates no remote store is configured.
	// Local-only operation is a supported mode, not a failure state.
	ErrNoRemote = errors.New("no remote store configured")
)

// Recoverable reports whether err is a remote failure that a later drain can
// retry. Permission rejections are the only permanent class.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrRemoteUnavailable),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrAuthExpired):
		return true
	default:
		return false
	}
}
