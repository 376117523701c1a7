package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// SyncQueue guarantees that writes made while offline or after a failed
// remote attempt are eventually retried without loss, duplication, or
// stale-value overwrite.
//
// The queue holds at most one entry per record id; the newest payload
// always supersedes an older queued payload for the same id. Entries are
// retained until a remote write confirms, no matter how many attempts
// fail: losing recorded progress is worse than an indefinitely stale
// entry. Only the progress store talks to the queue.
type SyncQueue struct {
	store  driven.QueueStore
	remote driven.RemoteStore
	clock  driven.Clock

	// drainMu guards the reentrancy state; storeMu serializes queue store
	// access so a payload replaced mid-drain is never deleted or pushed
	// stale.
	drainMu  sync.Mutex
	draining bool
	followUp bool
	storeMu  sync.Mutex
}

// NewSyncQueue creates a queue service over a durable store. remote may be
// nil when no remote store is configured; Drain then reports ErrNoRemote.
func NewSyncQueue(store driven.QueueStore, remote driven.RemoteStore, clock driven.Clock) *SyncQueue {
	return &SyncQueue{
		store:  store,
		remote: remote,
		clock:  clock,
	}
}

// Enqueue stores rec as the pending write for its record id, creating the
// entry or replacing an older payload. A replaced entry keeps its original
// EnqueuedAt but starts with a clean attempt history, since the attempts
// belonged to the superseded payload. cause is the remote failure that
// triggered the enqueue, or nil when the write was skipped while offline;
// permission rejections mark the entry non-retryable.
func (q *SyncQueue) Enqueue(ctx context.Context, rec domain.ProgressRecord, cause error) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	entry := domain.SyncQueueEntry{
		RecordID:     rec.ID,
		Payload:      rec,
		EnqueuedAt:   q.clock.Now(),
		NonRetryable: errors.Is(cause, domain.ErrPermissionDenied),
	}
	existing, err := q.store.Get(ctx, rec.ID)
	switch {
	case err == nil:
		if existing.Payload.UpdatedAt.After(rec.UpdatedAt) {
			// A newer payload is already queued; a late-settling older
			// failure must not roll it back.
			return nil
		}
		entry.EnqueuedAt = existing.EnqueuedAt
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("get queue entry: %w", err)
	}
	if err := q.store.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert queue entry: %w", err)
	}
	return nil
}

// Replace overwrites the queued payload for rec's id if one is queued, so
// a pending entry can never transmit a stale value after a newer local
// mutation. Records with nothing queued are left alone.
func (q *SyncQueue) Replace(ctx context.Context, rec domain.ProgressRecord) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	existing, err := q.store.Get(ctx, rec.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get queue entry: %w", err)
	}
	if existing.Payload.UpdatedAt.After(rec.UpdatedAt) {
		return nil
	}
	existing.Payload = rec
	existing.AttemptCount = 0
	existing.LastAttemptAt = nil
	existing.NonRetryable = false
	if err := q.store.Upsert(ctx, *existing); err != nil {
		return fmt.Errorf("upsert queue entry: %w", err)
	}
	return nil
}

// Acknowledge drops the queued entry for rec once a remote write of it has
// confirmed, unless a newer payload was queued in the meantime.
func (q *SyncQueue) Acknowledge(ctx context.Context, rec domain.ProgressRecord) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	existing, err := q.store.Get(ctx, rec.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get queue entry: %w", err)
	}
	if existing.Payload.UpdatedAt.After(rec.UpdatedAt) {
		return nil
	}
	if err := q.store.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	return nil
}

// PruneStale drops queued entries whose payload lost a merge: when snap
// holds a strictly newer value for an entry's record, pushing the queued
// payload would regress the remote, so the entry is removed.
func (q *SyncQueue) PruneStale(ctx context.Context, snap domain.Snapshot) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	entries, err := q.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}
	pruned := 0
	for _, entry := range entries {
		rec, ok := snap[entry.RecordID]
		if !ok || !rec.UpdatedAt.After(entry.Payload.UpdatedAt) {
			continue
		}
		if err := q.store.Delete(ctx, entry.RecordID); err != nil {
			return fmt.Errorf("delete queue entry: %w", err)
		}
		pruned++
	}
	if pruned > 0 {
		logger.Debug("Pruned %d queued writes superseded by merge", pruned)
	}
	return nil
}

// Depth returns the number of queued entries.
func (q *SyncQueue) Depth(ctx context.Context) int {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	n, err := q.store.Depth(ctx)
	if err != nil {
		logger.Warn("Queue depth unavailable: %v", err)
		return 0
	}
	return n
}

// Draining reports whether a drain is in flight.
func (q *SyncQueue) Draining() bool {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()
	return q.draining
}

// Clear removes every queued entry. Used only by the full progress reset.
func (q *SyncQueue) Clear(ctx context.Context) error {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	if err := q.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// Drain attempts a remote upsert for every queued payload. Entries that
// succeed are removed; entries that fail keep their payload, increment
// their attempt count, and stay queued for the next trigger.
//
// Only one drain runs at a time. A trigger arriving mid-drain is coalesced
// into exactly one follow-up pass instead of running concurrently, so
// repeated triggers can neither double-send a write nor corrupt attempt
// bookkeeping.
func (q *SyncQueue) Drain(ctx context.Context, userID string) error {
	if q.remote == nil {
		return domain.ErrNoRemote
	}

	q.drainMu.Lock()
	if q.draining {
		q.followUp = true
		q.drainMu.Unlock()
		return nil
	}
	q.draining = true
	q.drainMu.Unlock()
	defer func() {
		q.drainMu.Lock()
		q.draining = false
		q.drainMu.Unlock()
	}()

	for {
		err := q.drainPass(ctx, userID)

		q.drainMu.Lock()
		rerun := q.followUp
		q.followUp = false
		q.drainMu.Unlock()

		if !rerun {
			return err
		}
	}
}

// drainPass pushes every currently queued payload once.
func (q *SyncQueue) drainPass(ctx context.Context, userID string) error {
	q.storeMu.Lock()
	entries, err := q.store.List(ctx)
	q.storeMu.Unlock()
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	logger.Debug("Draining %d pending writes", len(entries))

	var errs []error
	for i := range entries {
		entry := entries[i]
		if entry.NonRetryable {
			continue
		}
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		pushErr := q.remote.UpsertRecords(ctx, userID, []domain.ProgressRecord{entry.Payload})
		if pushErr == nil {
			if ackErr := q.Acknowledge(ctx, entry.Payload); ackErr != nil {
				errs = append(errs, ackErr)
			}
			continue
		}

		q.recordAttempt(ctx, entry, pushErr)
		errs = append(errs, fmt.Errorf("drain %s: %w", entry.RecordID, pushErr))
		if errors.Is(pushErr, domain.ErrAuthExpired) {
			// The remaining entries would fail identically; they stay
			// queued until a login succeeds.
			break
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// recordAttempt updates bookkeeping for a failed push without disturbing a
// payload that was replaced mid-drain.
func (q *SyncQueue) recordAttempt(ctx context.Context, entry domain.SyncQueueEntry, cause error) {
	q.storeMu.Lock()
	defer q.storeMu.Unlock()

	current, err := q.store.Get(ctx, entry.RecordID)
	if err != nil {
		return
	}
	if current.Payload.UpdatedAt.After(entry.Payload.UpdatedAt) {
		// A fresh payload arrived while this one was failing; its attempt
		// history starts clean.
		return
	}
	now := q.clock.Now()
	current.AttemptCount++
	current.LastAttemptAt = &now
	if errors.Is(cause, domain.ErrPermissionDenied) {
		current.NonRetryable = true
		logger.Warn("Remote rejected %s for ownership reasons, entry parked", entry.RecordID)
	}
	if err := q.store.Upsert(ctx, *current); err != nil {
		logger.Warn("Queue bookkeeping failed for %s: %v", entry.RecordID, err)
	}
}
