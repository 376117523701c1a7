// Package supabase provides the remote store and auth client adapters over
// a Supabase project.
//
// Progress rows live in one PostgREST table per progress domain, keyed
// unique on (user_id, entity_id) and guarded by row-level security.
// Writes are idempotent upserts with resolution=merge-duplicates; the
// engine's conflict handling works on the updated_at stamps carried in the
// rows, so the adapter never interprets values.
//
// # Error Normalization
//
// Every failure leaving this package wraps exactly one of the domain's
// remote sentinel errors (ErrRemoteUnavailable, ErrRateLimited,
// ErrAuthExpired, ErrPermissionDenied). Callers classify with errors.Is
// and never see transport detail beyond the message text.
//
// # Rate Limiting
//
// All calls share a token-bucket limiter. A 429 response records the
// server-advised Retry-After as a backoff period that subsequent calls
// wait out.
package supabase
