package messages

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// TestSnapshotLoaded tests the SnapshotLoaded message type
func TestSnapshotLoaded(t *testing.T) {
	t.Run("with records", func(t *testing.T) {
		now := time.Now()
		quests := []domain.ProgressRecord{
			{ID: "quest:ancient-gate", Domain: domain.DomainQuest, EntityID: "ancient-gate", Value: 1, UpdatedAt: now},
		}
		stations := []domain.ProgressRecord{
			{ID: "station:forge", Domain: domain.DomainStation, EntityID: "forge", Value: 1, UpdatedAt: now},
			{ID: "station:loom", Domain: domain.DomainStation, EntityID: "loom", Value: 0, UpdatedAt: now},
		}
		items := []domain.ProgressRecord{
			{ID: "item_quantity:iron-ore", Domain: domain.DomainItemQuantity, EntityID: "iron-ore", Value: 42, UpdatedAt: now},
		}
		msg := SnapshotLoaded{Quests: quests, Stations: stations, Items: items, Err: nil}

		require.Len(t, msg.Quests, 1)
		require.Len(t, msg.Stations, 2)
		require.Len(t, msg.Items, 1)
		assert.Equal(t, "ancient-gate", msg.Quests[0].EntityID)
		assert.True(t, msg.Stations[0].Done())
		assert.False(t, msg.Stations[1].Done())
		assert.Equal(t, int64(42), msg.Items[0].Value)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("failed to load snapshot")
		msg := SnapshotLoaded{Err: err}

		assert.Nil(t, msg.Quests)
		assert.Nil(t, msg.Stations)
		assert.Nil(t, msg.Items)
		assert.Error(t, msg.Err)
		assert.Equal(t, "failed to load snapshot", msg.Err.Error())
	})

	t.Run("with empty snapshot", func(t *testing.T) {
		msg := SnapshotLoaded{
			Quests:   []domain.ProgressRecord{},
			Stations: []domain.ProgressRecord{},
			Items:    []domain.ProgressRecord{},
		}

		assert.Empty(t, msg.Quests)
		assert.Empty(t, msg.Stations)
		assert.Empty(t, msg.Items)
		assert.NoError(t, msg.Err)
	})
}

// TestChangeObserved tests the ChangeObserved message type
func TestChangeObserved(t *testing.T) {
	t.Run("with local change", func(t *testing.T) {
		event := domain.ChangeEvent{
			Domain:   domain.DomainQuest,
			EntityID: "ancient-gate",
			Value:    1,
			Origin:   domain.OriginLocal,
		}
		msg := ChangeObserved{Event: event}

		assert.Equal(t, domain.DomainQuest, msg.Event.Domain)
		assert.Equal(t, "ancient-gate", msg.Event.EntityID)
		assert.Equal(t, int64(1), msg.Event.Value)
		assert.Equal(t, domain.OriginLocal, msg.Event.Origin)
	})

	t.Run("with remote change", func(t *testing.T) {
		event := domain.ChangeEvent{
			Domain:   domain.DomainItemQuantity,
			EntityID: "iron-ore",
			Value:    17,
			Origin:   domain.OriginRemote,
		}
		msg := ChangeObserved{Event: event}

		assert.Equal(t, domain.OriginRemote, msg.Event.Origin)
		assert.Equal(t, int64(17), msg.Event.Value)
	})
}

// TestFeedClosed tests the FeedClosed message type
func TestFeedClosed(t *testing.T) {
	msg := FeedClosed{}
	// FeedClosed is an empty struct, just verify it can be created
	assert.NotNil(t, msg)
}

// TestSyncFinished tests the SyncFinished message type
func TestSyncFinished(t *testing.T) {
	t.Run("successful sync", func(t *testing.T) {
		msg := SyncFinished{Err: nil}
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("remote unreachable")
		msg := SyncFinished{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "remote unreachable", msg.Err.Error())
	})
}

// TestStatusTicked tests the StatusTicked message type
func TestStatusTicked(t *testing.T) {
	msg := StatusTicked{}
	assert.NotNil(t, msg)
}

// TestAccountLoaded tests the AccountLoaded message type
func TestAccountLoaded(t *testing.T) {
	t.Run("with account", func(t *testing.T) {
		msg := AccountLoaded{Account: "player@example.com"}
		assert.Equal(t, "player@example.com", msg.Account)
	})

	t.Run("logged out", func(t *testing.T) {
		msg := AccountLoaded{}
		assert.Equal(t, "", msg.Account)
	})
}

// TestErrorOccurred tests the ErrorOccurred message type
func TestErrorOccurred(t *testing.T) {
	t.Run("with standard error", func(t *testing.T) {
		err := errors.New("something went wrong")
		msg := ErrorOccurred{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "something went wrong", msg.Err.Error())
	})

	t.Run("with nil error", func(t *testing.T) {
		msg := ErrorOccurred{Err: nil}
		assert.Nil(t, msg.Err)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("base error")
		wrappedErr := errors.Join(baseErr, errors.New("additional context"))
		msg := ErrorOccurred{Err: wrappedErr}

		assert.Error(t, msg.Err)
		assert.Contains(t, msg.Err.Error(), "base error")
	})
}

// TestQuit tests the Quit message type
func TestQuit(t *testing.T) {
	msg := Quit{}
	// Quit is an empty struct, just verify it can be created
	assert.NotNil(t, msg)
}
