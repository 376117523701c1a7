package domain

// RecordState tracks a record's position in the local-to-remote write cycle.
type RecordState string

// Record states.
const (
	// RecordClean means the local value is confirmed synced to the remote
	// and nothing is queued.
	RecordClean RecordState = "clean"

	// RecordDirty means a local mutation is queued or awaiting its first
	// remote attempt.
	RecordDirty RecordState = "dirty"

	// RecordSyncing means a remote write for the record is in flight.
	RecordSyncing RecordState = "syncing"
)

// SyncState is the aggregate sync condition shown to users. Individual
// write failures are never surfaced; they resolve on a later drain.
type SyncState string

// Aggregate sync states, in display priority order.
const (
	// SyncStateOffline means the remote store is unreachable.
	SyncStateOffline SyncState = "offline"

	// SyncStateSyncing means a reconcile or drain is in flight.
	SyncStateSyncing SyncState = "syncing"

	// SyncStatePendingRetry means queued writes await the next drain.
	SyncStatePendingRetry SyncState = "pending_retry"

	// SyncStateSynced means nothing is queued or in flight.
	SyncStateSynced SyncState = "synced"
)

// Description returns a human-readable description of the state.
func (s SyncState) Description() string {
	switch s {
	case SyncStateOffline:
		return "Offline"
	case SyncStateSyncing:
		return "Syncing"
	case SyncStatePendingRetry:
		return "Pending retry"
	case SyncStateSynced:
		return "Synced"
	default:
		return unknownDescription
	}
}

// SyncStatus is the engine's aggregate status snapshot.
type SyncStatus struct {
	// QueueDepth is the number of queued pending writes.
	QueueDepth int `json:"queue_depth"`

	// Online reports current network reachability of the remote store.
	// Always false when no remote is configured.
	Online bool `json:"online"`

	// Authenticated reports whether a user session is active.
	Authenticated bool `json:"authenticated"`

	// Syncing reports whether a reconcile or drain is in flight.
	Syncing bool `json:"syncing"`
}

// State derives the aggregate state.
func (s SyncStatus) State() SyncState {
	switch {
	case !s.Online:
		return SyncStateOffline
	case s.Syncing:
		return SyncStateSyncing
	case s.QueueDepth > 0:
		return SyncStatePendingRetry
	default:
		return SyncStateSynced
	}
}
