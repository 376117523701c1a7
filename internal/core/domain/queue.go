package domain

import "time"

// SyncQueueEntry is a durable pending remote write for one record.
//
// The queue holds at most one entry per record id: a later enqueue for the
// same id replaces the payload, so a record mutated five times while offline
// results in exactly one queued write of the final value. Entries are never
// discarded by attempt count; silently losing recorded progress is worse
// than an indefinitely stale queue entry.
type SyncQueueEntry struct {
	// RecordID identifies the record awaiting upload.
	RecordID RecordID

	// Payload is the most recent local value for the record.
	Payload ProgressRecord

	// AttemptCount is how many drains have tried and failed to upload the
	// current payload.
	AttemptCount int

	// LastAttemptAt is when the last failed attempt happened.
	// Nil before the first attempt.
	LastAttemptAt *time.Time

	// EnqueuedAt is when the record first entered the queue.
	EnqueuedAt time.Time

	// NonRetryable marks entries the remote rejected for ownership reasons.
	// Drains skip them; they stay visible in queue depth until reset.
	NonRetryable bool
}
