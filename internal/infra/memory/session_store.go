package memory

import (
	"context"
	"sync"
	"time"

	"english-quiz-app/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// With an idle TTL set, a session not read or saved within the TTL is
// treated as gone.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
	idleTTL  time.Duration
	now      func() time.Time
}

type storedSession struct {
	session  *app.Session
	lastSeen time.Time
}

type SessionStoreOption func(*SessionStore)

// WithIdleTTL expires sessions left untouched for ttl. Zero disables expiry.
func WithIdleTTL(ttl time.Duration) SessionStoreOption {
	return func(s *SessionStore) { s.idleTTL = ttl }
}

func WithStoreClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) { s.now = now }
}

func NewSessionStore(opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*storedSession),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Save(_ context.Context, session *app.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[session.ID()] = &storedSession{session: session, lastSeen: now}
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*app.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastSeen = now
	return entry.session, true
}

func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports how many sessions are held, expired ones included until the
// next Save or Get evicts them.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *storedSession, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(entry.lastSeen) >= s.idleTTL
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.idleTTL <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
}
