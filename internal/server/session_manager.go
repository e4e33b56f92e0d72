package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/gsc-mcp/internal/instrumentation"
)

// DefaultSessionTimeout is how long an idle session is kept.
const DefaultSessionTimeout = 24 * time.Hour

// ErrUnknownSession is returned when a client presents a session ID this
// server never issued or has already expired.
var ErrUnknownSession = errors.New("unknown session id")

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	lastAccess time.Time
	terminated bool
}

// SessionIDManager issues and tracks Mcp-Session-Id values for the
// streamable HTTP transport. It satisfies mcp-go's SessionIdManager.
type SessionIDManager struct {
	sessions       map[string]*sessionInfo
	mu             sync.Mutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
	logger         *slog.Logger
	metrics        *instrumentation.Metrics
}

// NewSessionIDManager creates a session ID manager with the default timeout.
func NewSessionIDManager(logger *slog.Logger, metrics *instrumentation.Metrics) *SessionIDManager {
	return NewSessionIDManagerWithTimeout(DefaultSessionTimeout, logger, metrics)
}

// NewSessionIDManagerWithTimeout creates a session ID manager that expires
// sessions idle for longer than timeout.
func NewSessionIDManagerWithTimeout(timeout time.Duration, logger *slog.Logger, metrics *instrumentation.Metrics) *SessionIDManager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &SessionIDManager{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan struct{}),
		sessionTimeout: timeout,
		logger:         logger,
		metrics:        metrics,
	}

	// Start cleanup goroutine
	go m.cleanupExpiredSessions()

	return m
}

// Generate issues a new session ID.
func (m *SessionIDManager) Generate() string {
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &sessionInfo{lastAccess: time.Now()}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.IncrementActiveSessions(context.Background())
	}
	return id
}

// Validate checks a session ID presented by a client and refreshes its
// idle timer.
func (m *SessionIDManager) Validate(sessionID string) (isTerminated bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.sessions[sessionID]
	if !ok {
		return false, ErrUnknownSession
	}
	if info.terminated {
		return true, nil
	}
	info.lastAccess = time.Now()
	return false, nil
}

// Terminate ends a session at the client's request.
func (m *SessionIDManager) Terminate(sessionID string) (isNotAllowed bool, err error) {
	m.mu.Lock()
	info, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return false, ErrUnknownSession
	}
	wasActive := !info.terminated
	info.terminated = true
	info.lastAccess = time.Now()
	m.mu.Unlock()

	if wasActive && m.metrics != nil {
		m.metrics.DecrementActiveSessions(context.Background())
	}
	return false, nil
}

// ActiveSessions returns the number of live sessions.
func (m *SessionIDManager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, info := range m.sessions {
		if !info.terminated {
			n++
		}
	}
	return n
}

// expire drops sessions idle since before cutoff and returns how many
// were removed.
func (m *SessionIDManager) expire(cutoff time.Time) int {
	m.mu.Lock()
	expired := 0
	active := 0
	for sessionID, info := range m.sessions {
		if info.lastAccess.Before(cutoff) {
			if !info.terminated {
				active++
			}
			delete(m.sessions, sessionID)
			expired++
		}
	}
	m.mu.Unlock()

	if m.metrics != nil {
		for i := 0; i < active; i++ {
			m.metrics.DecrementActiveSessions(context.Background())
		}
	}
	return expired
}

// cleanupExpiredSessions periodically removes expired sessions
func (m *SessionIDManager) cleanupExpiredSessions() {
	for {
		select {
		case <-m.cleanupTicker.C:
			if n := m.expire(time.Now().Add(-m.sessionTimeout)); n > 0 {
				m.logger.Info("Cleaned up expired sessions", "count", n)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine
func (m *SessionIDManager) Stop() {
	m.stopOnce.Do(func() {
		m.cleanupTicker.Stop()
		close(m.cleanupDone)
	})
}
