package memory

import (
	"context"
	"sync"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
)

// Ensure LocalStore implements the interface.
var _ driven.LocalStore = (*LocalStore)(nil)

// LocalStore is an in-memory implementation of driven.LocalStore.
type LocalStore struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

// NewLocalStore creates a new in-memory local store.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		snap: domain.Snapshot{},
	}
}

// LoadAll returns the complete persisted record set.
func (s *LocalStore) LoadAll(_ context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// SaveAll atomically replaces the persisted record set.
func (s *LocalStore) SaveAll(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}
