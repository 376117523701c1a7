package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// Ensure ProgressStore implements the interface.
var _ driving.ProgressService = (*ProgressStore)(nil)

const (
	// remoteWriteTimeout bounds one background upsert attempt.
	remoteWriteTimeout = 15 * time.Second

	// backgroundSyncTimeout bounds monitor-triggered drains and
	// reconciles.
	backgroundSyncTimeout = 2 * time.Minute

	// subscriberBuffer is the per-subscriber event backlog. Slow
	// subscribers drop events and re-read on their next render.
	subscriberBuffer = 64
)

// inflightWrite tracks one cancellable background remote write.
type inflightWrite struct {
	cancel context.CancelFunc
}

// ProgressStore is the offline-first progress engine facade: the only
// component driving adapters talk to.
//
// A mutation is written synchronously to the in-memory cache and the local
// store, then pushed to the remote store as a detached background task.
// Remote failures enqueue the record for a later drain; they are never
// surfaced to the caller. Per record the store runs a small state machine:
// clean (confirmed remote), dirty (queued or awaiting the first attempt),
// syncing (write in flight), back to clean on success or dirty on failure.
type ProgressStore struct {
	local   driven.LocalStore
	remote  driven.RemoteStore
	queue   *SyncQueue
	monitor *ConnectivityMonitor
	clock   driven.Clock

	mu          sync.RWMutex
	cache       domain.Snapshot
	states      map[domain.RecordID]domain.RecordState
	inflight    map[domain.RecordID]*inflightWrite
	userID      string
	reconciling bool
	degraded    bool
	closed      bool

	tasks sync.WaitGroup

	subMu   sync.Mutex
	subs    map[int]chan domain.ChangeEvent
	nextSub int
}

// NewProgressStore wires the engine. remote and monitor may be nil for
// local-only operation; the store then never makes a network call and
// never queues a write.
func NewProgressStore(
	local driven.LocalStore,
	remote driven.RemoteStore,
	queue *SyncQueue,
	monitor *ConnectivityMonitor,
	clock driven.Clock,
) *ProgressStore {
	s := &ProgressStore{
		local:    local,
		remote:   remote,
		queue:    queue,
		monitor:  monitor,
		clock:    clock,
		cache:    domain.Snapshot{},
		states:   make(map[domain.RecordID]domain.RecordState),
		inflight: make(map[domain.RecordID]*inflightWrite),
		subs:     make(map[int]chan domain.ChangeEvent),
	}
	if monitor != nil {
		monitor.OnConnectivityRestored(s.drainAsync)
		monitor.OnUserChanged(s.handleUserChanged)
	}
	return s
}

// Initialize loads the device-local snapshot into the cache and, when a
// user and remote store are present, reconciles and drains. An empty
// userID selects local-only mode: no remote calls of any kind.
func (s *ProgressStore) Initialize(ctx context.Context, userID string) error {
	snap, err := s.local.LoadAll(ctx)
	if err != nil {
		// A broken local store degrades to an empty in-memory session
		// rather than refusing to start.
		logger.Warn("Local store unavailable, starting empty: %v", err)
		snap = domain.Snapshot{}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	s.cache = snap
	s.userID = userID
	s.mu.Unlock()

	if userID == "" || s.remote == nil {
		logger.Debug("Progress store initialised local-only (%d records)", len(snap))
		return nil
	}

	// Reconcile failures leave the engine serving local state; queued
	// writes wait for the next drain trigger.
	if err := s.Reconcile(ctx); err != nil && !errors.Is(err, domain.ErrSyncInProgress) {
		logger.Warn("Initial reconcile failed, continuing with local state: %v", err)
	}
	return nil
}

// Mutate records a progress change. It returns once the cache and local
// store are updated; the remote write proceeds in the background and never
// blocks the caller.
func (s *ProgressStore) Mutate(ctx context.Context, d domain.Domain, entityID string, value int64) error {
	desc, err := domain.DescriptorFor(d)
	if err != nil {
		return err
	}
	if entityID == "" {
		return fmt.Errorf("%w: empty entity id", domain.ErrInvalidEntityID)
	}
	if err := desc.ValidateValue(value); err != nil {
		return err
	}
	id := desc.Key(entityID)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}

	now := s.clock.Now()
	prev, existed := s.cache[id]
	if existed && !now.After(prev.UpdatedAt) {
		// Stamps must strictly increase per record even when the wall
		// clock stalls or steps backwards.
		now = prev.UpdatedAt.Add(time.Millisecond)
	}

	rec := domain.ProgressRecord{
		ID:        id,
		Domain:    d,
		EntityID:  entityID,
		Value:     value,
		UpdatedAt: now,
	}
	if desc.Kind == domain.ValueToggle && value != 0 {
		if existed && prev.Done() && prev.CompletedAt != nil {
			rec.CompletedAt = prev.CompletedAt
		} else {
			done := now
			rec.CompletedAt = &done
		}
	}

	s.cache[id] = rec
	userID := s.userID
	remoteBound := s.remote != nil && userID != ""
	if remoteBound {
		// Dirty marks a pending remote attempt. Local-only records have
		// none, so they stay clean.
		s.states[id] = domain.RecordDirty
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(domain.ChangeEvent{
		Domain:   d,
		EntityID: entityID,
		Value:    value,
		Origin:   domain.OriginLocal,
	})

	if !remoteBound {
		// Local-only: nothing is queued, queue depth stays zero.
		return nil
	}

	// A queued stale payload must not outrace the fresh write.
	if err := s.queue.Replace(ctx, rec); err != nil {
		logger.Warn("Queue replace failed for %s: %v", id, err)
	}
	s.startRemoteWrite(rec, userID)
	return nil
}

// Read returns the cached record for one entity. Never touches the
// network.
func (s *ProgressStore) Read(d domain.Domain, entityID string) (*domain.ProgressRecord, error) {
	desc, err := domain.DescriptorFor(d)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.cache[desc.Key(entityID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rec.Clone()
	return &out, nil
}

// ReadAll returns the cached records for one domain, ordered by entity id.
func (s *ProgressStore) ReadAll(d domain.Domain) ([]domain.ProgressRecord, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, string(d))
	}

	s.mu.RLock()
	out := make([]domain.ProgressRecord, 0, len(s.cache))
	for _, rec := range s.cache {
		if rec.Domain == d {
			out = append(out, rec.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

// RecordState returns a record's position in the write cycle. Records
// never mutated, and records confirmed synced, report clean.
func (s *ProgressStore) RecordState(d domain.Domain, entityID string) domain.RecordState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.states[domain.NewRecordID(d, entityID)]; ok {
		return state
	}
	return domain.RecordClean
}

// Status returns the aggregate sync status snapshot.
func (s *ProgressStore) Status() domain.SyncStatus {
	s.mu.RLock()
	userID := s.userID
	syncing := s.reconciling || len(s.inflight) > 0
	s.mu.RUnlock()

	status := domain.SyncStatus{
		Authenticated: userID != "",
		Syncing:       syncing || s.queue.Draining(),
	}
	if s.monitor != nil {
		status.Online = s.monitor.Online()
	}
	if s.remote != nil {
		status.QueueDepth = s.queue.Depth(context.Background())
	}
	return status
}

// Subscribe registers for change notifications. The returned cancel
// function releases the subscription and closes the channel.
func (s *ProgressStore) Subscribe() (<-chan domain.ChangeEvent, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.ChangeEvent, subscriberBuffer)
	s.subs[id] = ch

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Reconcile fetches the user's remote records, merges them with the local
// snapshot under last-write-wins, persists the result, notifies
// remote-origin changes, and drains the queue.
func (s *ProgressStore) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return domain.ErrClosed
	case s.remote == nil:
		s.mu.Unlock()
		return domain.ErrNoRemote
	case s.userID == "":
		s.mu.Unlock()
		return domain.ErrNotAuthenticated
	case s.reconciling:
		s.mu.Unlock()
		return domain.ErrSyncInProgress
	}
	s.reconciling = true
	userID := s.userID
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.reconciling = false
		s.mu.Unlock()
	}()

	logger.Section("Reconcile")

	// 1. Fetch the user's rows for every domain.
	remote := domain.Snapshot{}
	for _, desc := range domain.Descriptors() {
		recs, err := s.remote.FetchUserRecords(ctx, userID, desc.Name)
		if err != nil {
			if errors.Is(err, domain.ErrAuthExpired) {
				s.markUnauthenticated()
			}
			return fmt.Errorf("fetch %s: %w", desc.TableName, err)
		}
		for _, rec := range recs {
			remote[rec.ID] = rec
		}
	}

	// 2. Merge under last-write-wins and persist the reconciled snapshot.
	// In-flight writes the remote superseded are cancelled; letting them
	// land would regress the remote to the losing value.
	s.mu.Lock()
	merged := domain.Merge(s.cache, remote)
	var changes []domain.ChangeEvent
	for id, rec := range merged {
		prev, existed := s.cache[id]
		if !existed || prev.Value != rec.Value {
			changes = append(changes, domain.ChangeEvent{
				Domain:   rec.Domain,
				EntityID: rec.EntityID,
				Value:    rec.Value,
				Origin:   domain.OriginRemote,
			})
		}
		if w, ok := s.inflight[id]; ok && existed && rec.UpdatedAt.After(prev.UpdatedAt) {
			w.cancel()
			delete(s.inflight, id)
			s.states[id] = domain.RecordClean
		}
	}
	s.cache = merged
	s.persistLocked(ctx)
	s.mu.Unlock()

	// 3. Notify subscribers about records other devices changed.
	for _, ev := range changes {
		s.publish(ev)
	}
	logger.Debug("Reconciled %d remote records, %d changes", len(remote), len(changes))

	// 4. Drop queued payloads the merge superseded, then flush the rest.
	// Drain failures keep their entries queued for the next trigger.
	if err := s.queue.PruneStale(ctx, merged); err != nil {
		logger.Warn("Queue prune failed: %v", err)
	}
	if err := s.queue.Drain(ctx, userID); err != nil {
		logger.Warn("Drain after reconcile incomplete: %v", err)
	}
	return nil
}

// ResetAll clears all progress: cache, local store, queue, and the user's
// remote rows when a remote is configured. The only deletion operation.
func (s *ProgressStore) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	for id, w := range s.inflight {
		w.cancel()
		delete(s.inflight, id)
	}
	s.cache = domain.Snapshot{}
	s.states = make(map[domain.RecordID]domain.RecordState)
	userID := s.userID
	saveErr := s.local.SaveAll(ctx, s.cache)
	s.mu.Unlock()

	if saveErr != nil {
		return fmt.Errorf("clear local store: %w", saveErr)
	}
	if err := s.queue.Clear(ctx); err != nil {
		return err
	}
	if s.remote != nil && userID != "" {
		for _, desc := range domain.Descriptors() {
			if err := s.remote.DeleteUserRecords(ctx, userID, desc.Name); err != nil {
				return fmt.Errorf("delete remote %s: %w", desc.TableName, err)
			}
		}
	}
	logger.Info("All progress reset")
	return nil
}

// Close stops background work, interrupts in-flight remote writes, and
// queues the interrupted payloads so no accepted mutation is lost. It
// returns once every background task has wound down.
func (s *ProgressStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, w := range s.inflight {
		w.cancel()
	}
	s.mu.Unlock()

	s.tasks.Wait()

	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()
	return nil
}

// persistLocked writes the cache through to the local store. Persistence
// failures degrade to session-memory durability; they never fail the
// mutation. Callers hold s.mu.
func (s *ProgressStore) persistLocked(ctx context.Context) {
	if err := s.local.SaveAll(ctx, s.cache); err != nil {
		if !s.degraded {
			logger.Warn("Local persistence failing, progress is in-memory only: %v", err)
			s.degraded = true
		}
		return
	}
	s.degraded = false
}

// startRemoteWrite fires the detached background upsert for rec. A newer
// mutation for the same record cancels and supersedes an in-flight write,
// so two writes for one id can never land out of order.
func (s *ProgressStore) startRemoteWrite(rec domain.ProgressRecord, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
	w := &inflightWrite{cancel: cancel}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		// Shutdown raced the mutation; the write stays queued for the
		// next run.
		qctx, qcancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		if err := s.queue.Enqueue(qctx, rec, nil); err != nil {
			logger.Warn("Enqueue failed for %s: %v", rec.ID, err)
		}
		qcancel()
		return
	}
	if prev, ok := s.inflight[rec.ID]; ok {
		prev.cancel()
	}
	s.inflight[rec.ID] = w
	s.states[rec.ID] = domain.RecordSyncing
	s.mu.Unlock()

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		defer cancel()

		err := s.remote.UpsertRecords(ctx, userID, []domain.ProgressRecord{rec})

		s.mu.Lock()
		owner := s.inflight[rec.ID] == w
		if owner {
			delete(s.inflight, rec.ID)
			if err == nil {
				s.states[rec.ID] = domain.RecordClean
			} else {
				s.states[rec.ID] = domain.RecordDirty
			}
		}
		s.mu.Unlock()

		if !owner {
			// Superseded by a newer mutation; that write owns the queue
			// bookkeeping now.
			return
		}

		qctx, qcancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer qcancel()

		if err == nil {
			if ackErr := s.queue.Acknowledge(qctx, rec); ackErr != nil {
				logger.Warn("Queue acknowledge failed for %s: %v", rec.ID, ackErr)
			}
			return
		}
		if ctx.Err() == context.Canceled {
			// Close interrupted the write; it stays queued for the next
			// run rather than vanishing with the process.
			if qerr := s.queue.Enqueue(qctx, rec, nil); qerr != nil {
				logger.Warn("Enqueue failed for %s: %v", rec.ID, qerr)
			}
			return
		}

		logger.Debug("Remote write failed for %s, queued: %v", rec.ID, err)
		if qerr := s.queue.Enqueue(qctx, rec, err); qerr != nil {
			logger.Warn("Enqueue failed for %s: %v", rec.ID, qerr)
		}
		if errors.Is(err, domain.ErrAuthExpired) {
			s.markUnauthenticated()
		}
		if errors.Is(err, domain.ErrRemoteUnavailable) && s.monitor != nil {
			// Re-probe now so status flips to offline ahead of the poll.
			s.monitor.Check(qctx)
		}
	}()
}

// drainAsync flushes the queue off the caller's goroutine. Wired to the
// monitor's connectivity-restored trigger.
func (s *ProgressStore) drainAsync() {
	s.mu.RLock()
	userID := s.userID
	closed := s.closed
	s.mu.RUnlock()
	if closed || s.remote == nil || userID == "" {
		return
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundSyncTimeout)
		defer cancel()
		if err := s.queue.Drain(ctx, userID); err != nil {
			logger.Warn("Queue drain incomplete: %v", err)
		}
	}()
}

// handleUserChanged reinitialises the engine for a new identity. Login,
// logout, and account switches all land here via the monitor.
func (s *ProgressStore) handleUserChanged(userID string) {
	s.mu.RLock()
	current := s.userID
	closed := s.closed
	s.mu.RUnlock()
	if closed || userID == current {
		return
	}

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundSyncTimeout)
		defer cancel()
		if err := s.Initialize(ctx, userID); err != nil {
			logger.Warn("Reinitialise after user change failed: %v", err)
		}
	}()
}

// markUnauthenticated drops into local-only mode after an expired session.
// Queued entries stay queued; the next successful login drains them.
func (s *ProgressStore) markUnauthenticated() {
	s.mu.Lock()
	was := s.userID
	s.userID = ""
	s.mu.Unlock()
	if was != "" {
		logger.Warn("Session expired, progress continues local-only until next login")
	}
}

// publish delivers ev to subscribers without ever blocking a mutation.
func (s *ProgressStore) publish(ev domain.ChangeEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
