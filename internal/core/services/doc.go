// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The progress store facade, the sync queue, and the connectivity monitor
// together form the offline-first synchronisation engine. Services are
// pure Go with no external dependencies.
package services
