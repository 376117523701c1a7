// Package domain defines the core business entities for Tracklight.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProgressRecord: one unit of tracked progress
//   - Descriptor: binding of a progress domain to its storage encoding
//   - SyncQueueEntry: a durable pending remote write
//   - Session: an authenticated session against the remote store
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
