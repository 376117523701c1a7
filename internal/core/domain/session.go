package domain

import "time"

// sessionExpiryMargin keeps remote calls from racing the token expiry
// boundary.
const sessionExpiryMargin = 30 * time.Second

// Session is an authenticated user session against the remote store.
// Tracklight consumes sessions; it never implements the signup or password
// flow itself.
type Session struct {
	// UserID is the remote store's identifier for the user. Remote rows
	// are scoped to it by the store's row-level access policy.
	UserID string

	// Email is the account email, informational only.
	Email string

	// AccessToken authorizes remote calls until ExpiresAt.
	AccessToken string

	// RefreshToken obtains a new access token after expiry.
	RefreshToken string

	// ExpiresAt is when the access token stops being accepted.
	// Zero means the token does not expire.
	ExpiresAt time.Time
}

// Expired reports whether the access token needs a refresh at the given
// time.
func (s Session) Expired(now time.Time) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt.Add(-sessionExpiryMargin))
}
