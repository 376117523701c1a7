package driven

import "context"

// ConnectivityProbe checks whether the remote store is reachable.
// The monitor polls it on a fixed interval and re-checks around remote
// failures, so implementations keep the check cheap.
type ConnectivityProbe interface {
	// Online reports current reachability.
	Online(ctx context.Context) bool
}
