package services

import (
	"context"
	"sync"
	"time"

	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driven"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

// defaultProbeInterval paces the reachability poll when no interval is
// configured.
const defaultProbeInterval = 30 * time.Second

// ConnectivityMonitor observes the two reconciliation triggers: network
// reachability of the remote store and the authenticated-user identity.
//
// An offline-to-online transition fires the restored handlers (queue
// drain); an identity change fires the user handlers (reconcile, including
// the switch into and out of local-only mode). Rapid online/offline
// flapping is not debounced: a drain on an empty queue is a cheap no-op
// and reconcile is reentrancy-guarded downstream.
type ConnectivityMonitor struct {
	probe    driven.ConnectivityProbe
	interval time.Duration

	mu         sync.Mutex
	online     bool
	userID     string
	onRestored []func()
	onUser     []func(userID string)
	running    bool
	stopCh     chan struct{}
}

// NewConnectivityMonitor creates a monitor polling probe every interval.
// A non-positive interval selects the default.
func NewConnectivityMonitor(probe driven.ConnectivityProbe, interval time.Duration) *ConnectivityMonitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &ConnectivityMonitor{
		probe:    probe,
		interval: interval,
	}
}

// OnConnectivityRestored registers f to run whenever the network
// transitions from offline to online. Handlers must be fast or hand off to
// their own goroutine.
func (m *ConnectivityMonitor) OnConnectivityRestored(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRestored = append(m.onRestored, f)
}

// OnUserChanged registers f to run whenever the authenticated user
// changes, including login ("" to id) and logout (id to "").
func (m *ConnectivityMonitor) OnUserChanged(f func(userID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUser = append(m.onUser, f)
}

// Start begins the probe loop. It blocks until Stop is called or the
// context is cancelled.
func (m *ConnectivityMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil // Already running
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.mu.Unlock()

	// Establish the starting state immediately; coming up online counts
	// as a restoration so queued writes from earlier runs flush at start.
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stopCh:
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Stop shuts down the probe loop.
func (m *ConnectivityMonitor) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()
	return nil
}

// Check probes reachability once, records the result, and fires the
// restored handlers on an offline-to-online transition. Safe to call from
// any goroutine; the engine calls it after remote failures so state reacts
// faster than the poll interval.
func (m *ConnectivityMonitor) Check(ctx context.Context) bool {
	online := false
	if m.probe != nil {
		online = m.probe.Online(ctx)
	}

	m.mu.Lock()
	restored := online && !m.online
	m.online = online
	var handlers []func()
	if restored {
		handlers = append(handlers, m.onRestored...)
	}
	m.mu.Unlock()

	if restored {
		logger.Info("Connectivity restored")
		for _, f := range handlers {
			f()
		}
	}
	return online
}

// Online returns the last probed reachability state.
func (m *ConnectivityMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetUser records the authenticated user and fires the user handlers when
// the identity actually changed. The session service calls it on startup
// restore, login, and logout.
func (m *ConnectivityMonitor) SetUser(userID string) {
	m.mu.Lock()
	changed := userID != m.userID
	m.userID = userID
	var handlers []func(string)
	if changed {
		handlers = append(handlers, m.onUser...)
	}
	m.mu.Unlock()

	if !changed {
		return
	}
	if userID == "" {
		logger.Info("User signed out, progress continues local-only")
	} else {
		logger.Debug("User changed to %s", userID)
	}
	for _, f := range handlers {
		f(userID)
	}
}

// UserID returns the currently recorded user id, empty when none.
func (m *ConnectivityMonitor) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}
