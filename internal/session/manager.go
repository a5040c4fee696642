package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const minSweepInterval = time.Second

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager keeps one Session per client token and evicts idle ones.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*entry
	newSession func() *Session
	ttl        time.Duration
	now        func() time.Time
}

func NewManager(ttl time.Duration, newSession func() *Session) *Manager {
	return &Manager{
		sessions:   make(map[string]*entry),
		newSession: newSession,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create starts a new Session and returns its token.
func (m *Manager) Create() (string, *Session) {
	token := uuid.NewString()
	sess := m.newSession()

	m.mu.Lock()
	m.sessions[token] = &entry{session: sess, lastSeen: m.now()}
	m.mu.Unlock()

	slog.Debug("session created", slog.String("token", token))
	return token, sess
}

// Get returns the Session for token and marks it as seen.
func (m *Manager) Get(token string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.session, true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the ttl. Sessions awaiting a
// reply are kept.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, e := range m.sessions {
		if now.Sub(e.lastSeen) <= m.ttl || e.session.Pending() {
			continue
		}
		delete(m.sessions, token)
		removed++
	}
	return removed
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) *sync.WaitGroup {
	interval := m.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(m.now()); n > 0 {
					slog.Info("evicted idle sessions", slog.Int("count", n), slog.Int("remaining", m.Len()))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return wg
}
