package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/designdocs/internal/errors"
	"github.com/vango-dev/designdocs/pkg/reveal"
)

// browser is the reveal state shared by every page view of one browser.
type browser struct {
	registry *reveal.Registry
	sessions int
	lastSeen time.Time
}

// Manager tracks live sessions and expires the ones that never attach or
// go idle. Sessions opened by the same browser share one reveal registry,
// so navigating between pages keeps what has already been revealed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	browsers map[string]*browser
	shutdown bool

	config *Config
	logger *slog.Logger
	now    func() time.Time

	done        chan struct{}
	janitorDone chan struct{}
}

// NewManager creates a Manager and starts its cleanup goroutine.
// config must already carry defaults.
func NewManager(config *Config) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		browsers:    make(map[string]*browser),
		config:      config,
		logger:      config.Logger.With("component", "session_manager"),
		now:         time.Now,
		done:        make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Create starts a new session for a new browser. traceCtx carries the
// span context that reveal spans of the session are parented to.
func (m *Manager) Create(traceCtx context.Context) (*Session, error) {
	return m.CreateFor(traceCtx, "")
}

// CreateFor starts a new session for the browser identified by browserID.
// Sessions of one browser share its reveal registry. An empty or
// malformed browserID mints a new browser; the session's Browser field
// carries the id to hand back to the client.
func (m *Manager) CreateFor(traceCtx context.Context, browserID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil, errors.New("E212").WithDetail("server is shutting down")
	}
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		return nil, errors.New("E213").WithDetailf("%d sessions", len(m.sessions))
	}

	if _, err := uuid.Parse(browserID); err != nil {
		browserID = uuid.NewString()
	}
	b := m.browsers[browserID]
	if b == nil {
		b = &browser{registry: reveal.NewRegistry()}
		m.browsers[browserID] = b
	}
	b.sessions++
	b.lastSeen = m.now()

	s := newSession(uuid.NewString(), browserID, b.registry, m.config, traceCtx)
	s.onClose = m.remove
	m.sessions[s.ID] = s
	m.config.Metrics.SessionOpened()
	m.logger.Debug("session created", "session_id", s.ID, "browser", browserID,
		"revealed", b.registry.Len())
	return s, nil
}

// Registry returns the reveal registry of browserID, or nil.
func (m *Manager) Registry(browserID string) *reveal.Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b := m.browsers[browserID]; b != nil {
		return b.registry
	}
	return nil
}

// Browsers returns the number of browsers with a live registry.
func (m *Manager) Browsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.browsers)
}

// Get returns the session with id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sessions returns a snapshot of the live sessions.
func (m *Manager) Sessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.ID] != s {
		return
	}
	delete(m.sessions, s.ID)
	if b := m.browsers[s.Browser]; b != nil {
		b.sessions--
		b.lastSeen = m.now()
	}
	m.config.Metrics.SessionClosed()
}

// forget drops the registries of browsers that have no session left and
// have been away longer than IdleTimeout.
func (m *Manager) forget(now time.Time) int {
	if m.config.IdleTimeout <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, b := range m.browsers {
		if b.sessions == 0 && now.Sub(b.lastSeen) > m.config.IdleTimeout {
			delete(m.browsers, id)
			n++
		}
	}
	return n
}

// sweep closes expired sessions and returns how many it closed.
func (m *Manager) sweep(now time.Time) int {
	n := 0
	for _, s := range m.Sessions() {
		var reason string
		switch {
		case !s.Attached() && m.config.AttachTimeout > 0 && now.Sub(s.CreatedAt) > m.config.AttachTimeout:
			reason = "attach_timeout"
		case s.Attached() && m.config.IdleTimeout > 0 && now.Sub(s.LastActive()) > m.config.IdleTimeout:
			reason = "idle_timeout"
		default:
			continue
		}
		m.logger.Debug("expiring session", "session_id", s.ID, "reason", reason)
		s.Close()
		n++
	}
	return n
}

func (m *Manager) janitor() {
	defer close(m.janitorDone)

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := m.now()
			if n := m.sweep(now); n > 0 {
				m.logger.Info("expired sessions", "count", n, "active", m.Len())
			}
			if n := m.forget(now); n > 0 {
				m.logger.Debug("forgot browsers", "count", n, "remaining", m.Browsers())
			}
		case <-m.done:
			return
		}
	}
}

// Shutdown closes every session and waits for their goroutines, or for
// ctx to end. New sessions are refused afterwards.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	m.mu.Unlock()

	close(m.done)
	<-m.janitorDone

	sessions := m.Sessions()
	for _, s := range sessions {
		s.Close()
	}

	waited := make(chan struct{})
	go func() {
		for _, s := range sessions {
			s.Wait()
		}
		close(waited)
	}()

	select {
	case <-waited:
		m.logger.Info("sessions closed", "count", len(sessions))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
