// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// SnapshotLoaded carries a full progress snapshot read from local storage.
type SnapshotLoaded struct {
	Quests   []domain.ProgressRecord
	Stations []domain.ProgressRecord
	Items    []domain.ProgressRecord
	Err      error
}

// ChangeObserved carries one progress change from the engine's event feed.
type ChangeObserved struct {
	Event domain.ChangeEvent
}

// FeedClosed signals that the engine's event feed has shut down.
type FeedClosed struct{}

// SyncFinished signals a manually triggered reconcile completed.
type SyncFinished struct {
	Err error
}

// StatusTicked signals the periodic sync status refresh fired.
type StatusTicked struct{}

// AccountLoaded carries the signed-in account label for the header,
// empty when logged out.
type AccountLoaded struct {
	Account string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
