package domain

// Merge reconciles a local snapshot with a remote snapshot using
// last-write-wins on UpdatedAt:
//
//   - id only in remote: take remote (arrived from another device)
//   - id only in local: keep local (remote does not know it yet)
//   - id in both: strictly greater UpdatedAt wins; on an exact tie the
//     remote record wins, since the remote store is the multi-device
//     authority and ties most often mean no real divergence
//
// This is a pairwise two-source merge, not an N-way CRDT; three or more
// devices converge transitively through the remote store as the hub.
// Merge is deterministic and idempotent: Merge(Merge(l, r), r) == Merge(l, r).
// Inputs are not modified.
func Merge(local, remote Snapshot) Snapshot {
	merged := make(Snapshot, len(local)+len(remote))
	for id, rec := range local {
		merged[id] = rec
	}
	for id, rem := range remote {
		loc, ok := merged[id]
		if !ok || !loc.UpdatedAt.After(rem.UpdatedAt) {
			merged[id] = rem
		}
	}
	return merged
}
