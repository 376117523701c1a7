// Package sqlite implements the driven storage ports on a single SQLite
// database.
//
// The driver is modernc.org/sqlite, pure Go with no CGO, so the binary
// cross-compiles cleanly. One connection serves three stores:
//
//   - LocalStore: the device's full progress record set
//   - QueueStore: pending remote writes awaiting upload
//   - SessionStore: the stored remote session
//
// # Schema
//
// Versioned migrations live in migrations/ as .up.sql/.down.sql pairs
// and are applied on open.
//
// # Data Location
//
// By default the database sits at ~/.tracklight/data/progress.db
//
// # Timestamps
//
// Timestamps persist as fixed-width UTC text so that string order is
// chronological order and millisecond stamp bumps survive a restart.
//
// # Thread Safety
//
// All operations are safe for concurrent use; the database runs in WAL
// mode.
package sqlite
