package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

func queueEntry(id domain.RecordID, value int64, enqueuedAt time.Time) domain.SyncQueueEntry {
	d, entity, _ := id.Split()
	return domain.SyncQueueEntry{
		RecordID: id,
		Payload: domain.ProgressRecord{
			ID:        id,
			Domain:    d,
			EntityID:  entity,
			Value:     value,
			UpdatedAt: enqueuedAt,
		},
		EnqueuedAt: enqueuedAt,
	}
}

func TestNewQueueStore(t *testing.T) {
	store := NewQueueStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.entries)
}

func TestQueueStore_Upsert_Create(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	entry := queueEntry("quest:gather-wood", 1, time.Now())
	err := store.Upsert(ctx, entry)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "quest:gather-wood")
	require.NoError(t, err)
	assert.Equal(t, entry.RecordID, saved.RecordID)
	assert.Equal(t, int64(1), saved.Payload.Value)
}

func TestQueueStore_Upsert_Replace(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Upsert(ctx, queueEntry("item_quantity:iron-ore", 3, now)))
	require.NoError(t, store.Upsert(ctx, queueEntry("item_quantity:iron-ore", 7, now.Add(time.Second))))

	saved, err := store.Get(ctx, "item_quantity:iron-ore")
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.Payload.Value)

	depth, err := store.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)
}

func TestQueueStore_Get_NotFound(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	entry, err := store.Get(ctx, "quest:nonexistent")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, entry)
}

func TestQueueStore_Delete_Success(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, queueEntry("quest:a", 1, time.Now())))

	err := store.Delete(ctx, "quest:a")
	require.NoError(t, err)

	_, err = store.Get(ctx, "quest:a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueueStore_Delete_NonExistent(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	// Delete of an absent entry is not an error.
	err := store.Delete(ctx, "quest:nonexistent")
	assert.NoError(t, err)
}

func TestQueueStore_List_OldestFirst(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:c", 1, base.Add(2*time.Minute))))
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:a", 1, base)))
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:b", 1, base.Add(time.Minute))))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.RecordID("quest:a"), entries[0].RecordID)
	assert.Equal(t, domain.RecordID("quest:b"), entries[1].RecordID)
	assert.Equal(t, domain.RecordID("quest:c"), entries[2].RecordID)
}

func TestQueueStore_List_TiesByRecordID(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, queueEntry("station:furnace", 1, at)))
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:a", 1, at)))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.RecordID("quest:a"), entries[0].RecordID)
	assert.Equal(t, domain.RecordID("station:furnace"), entries[1].RecordID)
}

func TestQueueStore_List_Empty(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestQueueStore_Depth(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	depth, err := store.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)

	now := time.Now()
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:a", 1, now)))
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:b", 1, now)))

	depth, err = store.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestQueueStore_Clear(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Upsert(ctx, queueEntry("quest:a", 1, now)))
	require.NoError(t, store.Upsert(ctx, queueEntry("station:b", 1, now)))

	err := store.Clear(ctx)
	require.NoError(t, err)

	depth, err := store.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)
}

func TestQueueStore_AttemptBookkeeping(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	now := time.Now()
	entry := queueEntry("quest:a", 1, now)
	require.NoError(t, store.Upsert(ctx, entry))

	// Simulate a failed attempt being recorded.
	saved, err := store.Get(ctx, "quest:a")
	require.NoError(t, err)
	attemptAt := now.Add(time.Minute)
	saved.AttemptCount = 1
	saved.LastAttemptAt = &attemptAt
	saved.NonRetryable = true
	require.NoError(t, store.Upsert(ctx, *saved))

	reloaded, err := store.Get(ctx, "quest:a")
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.AttemptCount)
	require.NotNil(t, reloaded.LastAttemptAt)
	assert.True(t, reloaded.LastAttemptAt.Equal(attemptAt))
	assert.True(t, reloaded.NonRetryable)
}

func TestQueueStore_Concurrency(t *testing.T) {
	store := NewQueueStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numOperations := 100

	wg.Add(numOperations)
	for i := 0; i < numOperations; i++ {
		go func(id int) {
			defer wg.Done()
			recID := domain.NewRecordID(domain.DomainQuest, "quest-"+string(rune('A'+id%10)))
			switch id % 4 {
			case 0:
				_ = store.Upsert(ctx, queueEntry(recID, int64(id), time.Now()))
			case 1:
				_, _ = store.Get(ctx, recID)
			case 2:
				_, _ = store.List(ctx)
			case 3:
				_ = store.Delete(ctx, recID)
			}
		}(i)
	}
	wg.Wait()

	// Should not panic or deadlock.
	_, err := store.Depth(ctx)
	assert.NoError(t, err)
}
