package mcp

import (
	"context"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
)

// mockMutation captures one Mutate call.
type mockMutation struct {
	domain   domain.Domain
	entityID string
	value    int64
}

// mockProgressService is a mock implementation of driving.ProgressService.
type mockProgressService struct {
	records    map[domain.Domain][]domain.ProgressRecord
	states     map[domain.RecordID]domain.RecordState
	status     domain.SyncStatus
	mutateErr  error
	readAllErr error
	mutations  []mockMutation
}

func (m *mockProgressService) Initialize(_ context.Context, _ string) error {
	return nil
}

func (m *mockProgressService) Mutate(_ context.Context, d domain.Domain, entityID string, value int64) error {
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.mutations = append(m.mutations, mockMutation{domain: d, entityID: entityID, value: value})

	if m.records == nil {
		m.records = make(map[domain.Domain][]domain.ProgressRecord)
	}
	recs := m.records[d]
	for i := range recs {
		if recs[i].EntityID == entityID {
			recs[i].Value = value
			return nil
		}
	}
	m.records[d] = append(recs, domain.ProgressRecord{
		ID:       domain.NewRecordID(d, entityID),
		Domain:   d,
		EntityID: entityID,
		Value:    value,
	})
	return nil
}

func (m *mockProgressService) Read(d domain.Domain, entityID string) (*domain.ProgressRecord, error) {
	for _, rec := range m.records[d] {
		if rec.EntityID == entityID {
			out := rec.Clone()
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProgressService) ReadAll(d domain.Domain) ([]domain.ProgressRecord, error) {
	if m.readAllErr != nil {
		return nil, m.readAllErr
	}
	return m.records[d], nil
}

func (m *mockProgressService) Status() domain.SyncStatus {
	return m.status
}

func (m *mockProgressService) RecordState(d domain.Domain, entityID string) domain.RecordState {
	if state, ok := m.states[domain.NewRecordID(d, entityID)]; ok {
		return state
	}
	return domain.RecordClean
}

func (m *mockProgressService) Subscribe() (<-chan domain.ChangeEvent, func()) {
	ch := make(chan domain.ChangeEvent)
	return ch, func() { close(ch) }
}

func (m *mockProgressService) Reconcile(_ context.Context) error {
	return nil
}

func (m *mockProgressService) ResetAll(_ context.Context) error {
	return nil
}

func (m *mockProgressService) Close() error {
	return nil
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session *domain.Session
	err     error
}

func (m *mockSessionService) Login(_ context.Context, _ string) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) Logout(_ context.Context) error {
	return m.err
}

func (m *mockSessionService) Current(_ context.Context) (*domain.Session, error) {
	if m.session == nil {
		return nil, domain.ErrNoSession
	}
	return m.session, m.err
}

func (m *mockSessionService) UserID(_ context.Context) string {
	if m.session == nil {
		return ""
	}
	return m.session.UserID
}
