package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages the stored remote session and feeds identity
// changes into the connectivity monitor. It consumes authentication: token
// exchange and refresh only, never signup or password flows.
type SessionService struct {
	store   driven.SessionStore
	auth    driven.AuthClient
	clock   driven.Clock
	monitor *ConnectivityMonitor

	mu      sync.Mutex
	current *domain.Session
}

// NewSessionService creates a session service. auth may be nil when no
// remote is configured; Login then reports ErrNoRemote. monitor may be nil
// in tests.
func NewSessionService(
	store driven.SessionStore,
	auth driven.AuthClient,
	clock driven.Clock,
	monitor *ConnectivityMonitor,
) *SessionService {
	return &SessionService{
		store:   store,
		auth:    auth,
		clock:   clock,
		monitor: monitor,
	}
}

// Restore loads the persisted session at startup, refreshing an expired
// token. Returns nil with no error when logged out or when the stored
// session can no longer be refreshed; the engine then runs local-only and
// queued writes wait for the next successful login.
func (s *SessionService) Restore(ctx context.Context) (*domain.Session, error) {
	sess, err := s.store.Load(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if sess.Expired(s.clock.Now()) {
		refreshed, refreshErr := s.refresh(ctx, sess)
		if refreshErr != nil {
			logger.Warn("Stored session no longer refreshes, starting signed out: %v", refreshErr)
			return nil, nil
		}
		sess = refreshed
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	if s.monitor != nil {
		s.monitor.SetUser(sess.UserID)
	}
	return sess, nil
}

// Login redeems refreshToken, persists the resulting session, and
// announces the identity change.
func (s *SessionService) Login(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if s.auth == nil {
		return nil, domain.ErrNoRemote
	}
	sess, err := s.auth.ExchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("exchange refresh token: %w", err)
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	if s.monitor != nil {
		s.monitor.SetUser(sess.UserID)
	}
	logger.Info("Logged in as %s", sess.UserID)
	return sess, nil
}

// Logout clears the stored session. Queued writes stay queued for a later
// login.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	if s.monitor != nil {
		s.monitor.SetUser("")
	}
	return nil
}

// Current returns the active session, transparently refreshing an expiring
// token. Returns domain.ErrNoSession when logged out.
func (s *SessionService) Current(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess == nil {
		return nil, domain.ErrNoSession
	}
	if !sess.Expired(s.clock.Now()) {
		return sess, nil
	}
	return s.refresh(ctx, sess)
}

// UserID returns the current user id, or empty when logged out.
func (s *SessionService) UserID(ctx context.Context) string {
	sess, err := s.Current(ctx)
	if err != nil {
		return ""
	}
	return sess.UserID
}

// refresh exchanges the session's refresh token and persists the rotated
// session.
func (s *SessionService) refresh(ctx context.Context, sess *domain.Session) (*domain.Session, error) {
	if s.auth == nil {
		return nil, domain.ErrNoRemote
	}
	refreshed, err := s.auth.ExchangeRefreshToken(ctx, sess.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if err := s.store.Save(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = refreshed
	s.mu.Unlock()
	return refreshed, nil
}
