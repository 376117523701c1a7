package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// Ensure QueueStore implements the interface.
var _ driven.QueueStore = (*QueueStore)(nil)

// QueueStore is an in-memory implementation of driven.QueueStore.
type QueueStore struct {
	mu      sync.RWMutex
	entries map[domain.RecordID]domain.SyncQueueEntry
}

// NewQueueStore creates a new in-memory queue store.
func NewQueueStore() *QueueStore {
	return &QueueStore{
		entries: make(map[domain.RecordID]domain.SyncQueueEntry),
	}
}

// Upsert stores or replaces the entry for its record id.
func (s *QueueStore) Upsert(_ context.Context, entry domain.SyncQueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.RecordID] = entry
	return nil
}

// Get retrieves the entry for a record id.
func (s *QueueStore) Get(_ context.Context, id domain.RecordID) (*domain.SyncQueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Delete removes the entry for a record id.
func (s *QueueStore) Delete(_ context.Context, id domain.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// List returns all queued entries, oldest enqueued first.
func (s *QueueStore) List(_ context.Context) ([]domain.SyncQueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SyncQueueEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EnqueuedAt.Equal(result[j].EnqueuedAt) {
			return result[i].RecordID < result[j].RecordID
		}
		return result[i].EnqueuedAt.Before(result[j].EnqueuedAt)
	})
	return result, nil
}

// Depth returns the number of queued entries.
func (s *QueueStore) Depth(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes every entry.
func (s *QueueStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[domain.RecordID]domain.SyncQueueEntry)
	return nil
}
