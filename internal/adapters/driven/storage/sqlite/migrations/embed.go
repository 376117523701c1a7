// Package migrations carries the SQL schema migrations for the SQLite
// store.
package migrations

import "embed"

// FS holds the migration files, embedded so the binary can create its
// schema anywhere.
//
//go:embed *.sql
var FS embed.FS
