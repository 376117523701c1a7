package cli

import (
	"context"
	"sync"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
)

// --- Mock implementations for CLI testing ---

// mockMutation records one Mutate call.
type mockMutation struct {
	domain   domain.Domain
	entityID string
	value    int64
}

// mockProgressService implements driving.ProgressService for testing.
type mockProgressService struct {
	mu sync.Mutex

	records map[domain.Domain][]domain.ProgressRecord
	states  map[domain.RecordID]domain.RecordState
	status  domain.SyncStatus

	mutateErr    error
	readAllErr   error
	reconcileErr error
	resetErr     error
	initErr      error

	mutations  []mockMutation
	inits      []string
	reconciles int
	resets     int
}

var _ driving.ProgressService = (*mockProgressService)(nil)

func newMockProgressService() *mockProgressService {
	return &mockProgressService{
		records: make(map[domain.Domain][]domain.ProgressRecord),
		states:  make(map[domain.RecordID]domain.RecordState),
	}
}

func (m *mockProgressService) Initialize(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits = append(m.inits, userID)
	return m.initErr
}

func (m *mockProgressService) Mutate(_ context.Context, d domain.Domain, entityID string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.mutations = append(m.mutations, mockMutation{domain: d, entityID: entityID, value: value})
	return nil
}

func (m *mockProgressService) Read(d domain.Domain, entityID string) (*domain.ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records[d] {
		if rec.EntityID == entityID {
			out := rec.Clone()
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProgressService) ReadAll(d domain.Domain) ([]domain.ProgressRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readAllErr != nil {
		return nil, m.readAllErr
	}
	return m.records[d], nil
}

func (m *mockProgressService) Status() domain.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockProgressService) RecordState(d domain.Domain, entityID string) domain.RecordState {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciles++
	return m.reconcileErr
}

func (m *mockProgressService) ResetAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	return m.resetErr
}

func (m *mockProgressService) Close() error {
	return nil
}

// mockSessionService implements driving.SessionService for testing.
type mockSessionService struct {
	session   *domain.Session
	loginErr  error
	logoutErr error

	loginCalls []string
	logouts    int
}

var _ driving.SessionService = (*mockSessionService)(nil)

func (m *mockSessionService) Login(_ context.Context, refreshToken string) (*domain.Session, error) {
	m.loginCalls = append(m.loginCalls, refreshToken)
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.session, nil
}

func (m *mockSessionService) Logout(_ context.Context) error {
	m.logouts++
	return m.logoutErr
}

func (m *mockSessionService) Current(_ context.Context) (*domain.Session, error) {
	if m.session == nil {
		return nil, domain.ErrNoSession
	}
	return m.session, nil
}

func (m *mockSessionService) UserID(_ context.Context) string {
	if m.session == nil {
		return ""
	}
	return m.session.UserID
}

// setupProgressTest installs mock as the progress service and returns the
// restore function.
func setupProgressTest(mock *mockProgressService) func() {
	old := progressService
	progressService = mock
	return func() {
		progressService = old
	}
}

// setupSessionTest installs mock as the session service and returns the
// restore function.
func setupSessionTest(mock *mockSessionService) func() {
	old := sessionService
	sessionService = mock
	return func() {
		sessionService = old
	}
}
