package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/google/uuid"
)

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
	SessionRefreshed SessionEventType = "profile_refreshed"
)

type Session struct {
	ID        string
	User      internal.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionEvent is delivered to listeners after the manager's state changed.
type SessionEvent struct {
	Type      SessionEventType
	SessionID string
	User      internal.User
}

type Listener func(SessionEvent)

// SessionManager owns the live sessions. Reads never touch the database:
// CurrentUser answers from the cached copy taken at sign-in or the last
// profile refresh.
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners map[int]Listener
	nextID    int
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewSessionManager(ttl time.Duration, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*Session),
		listeners: make(map[int]Listener),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

// Start opens a session for user and notifies listeners.
func (m *SessionManager) Start(user internal.User) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	s.User.SessionID = s.ID

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session started", "session_id", s.ID, "user_id", user.ID)
	m.notify(SessionEvent{Type: SessionSignedIn, SessionID: s.ID, User: s.User})
	return s
}

// Get returns a copy of a live session. Expired sessions are reported missing.
func (m *SessionManager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	var clone Session
	if ok {
		clone = *s
	}
	m.mu.RUnlock()
	if !ok || !m.now().Before(clone.ExpiresAt) {
		return nil, false
	}
	return &clone, true
}

// CurrentUser returns the cached user of a live session, or nil.
func (m *SessionManager) CurrentUser(sessionID string) *internal.User {
	s, ok := m.Get(sessionID)
	if !ok {
		return nil
	}
	u := s.User
	return &u
}

func (m *SessionManager) IsAdmin(sessionID string) bool {
	u := m.CurrentUser(sessionID)
	return u != nil && u.IsAdmin()
}

// End closes a session. Ending an unknown session is a no-op.
func (m *SessionManager) End(sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	m.logger.Info("session ended", "session_id", sessionID, "user_id", s.User.ID)
	m.notify(SessionEvent{Type: SessionSignedOut, SessionID: sessionID, User: s.User})
}

// EndForUser closes every session of a user and returns how many were closed.
func (m *SessionManager) EndForUser(userID int64) int {
	m.mu.Lock()
	var ended []*Session
	for id, s := range m.sessions {
		if s.User.ID == userID {
			ended = append(ended, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range ended {
		m.notify(SessionEvent{Type: SessionSignedOut, SessionID: s.ID, User: s.User})
	}
	return len(ended)
}

// RefreshUser replaces the cached profile in every session of user.ID.
func (m *SessionManager) RefreshUser(user internal.User) int {
	m.mu.Lock()
	var refreshed []SessionEvent
	for _, s := range m.sessions {
		if s.User.ID != user.ID {
			continue
		}
		u := user
		u.SessionID = s.ID
		s.User = u
		refreshed = append(refreshed, SessionEvent{Type: SessionRefreshed, SessionID: s.ID, User: u})
	}
	m.mu.Unlock()

	for _, ev := range refreshed {
		m.notify(ev)
	}
	return len(refreshed)
}

// SweepExpired drops sessions past their expiry and returns the count.
func (m *SessionManager) SweepExpired() int {
	now := m.now()
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		m.notify(SessionEvent{Type: SessionSignedOut, SessionID: s.ID, User: s.User})
	}
	if len(expired) > 0 {
		m.logger.Info("expired sessions swept", "count", len(expired))
	}
	return len(expired)
}

// Subscribe registers fn for session events. The returned func removes it.
func (m *SessionManager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// notify runs listeners synchronously, outside the lock.
func (m *SessionManager) notify(ev SessionEvent) {
	m.mu.RLock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
