package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"english-quiz-app/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves stay in process; Redis carries a liveness marker per
// session whose TTL is refreshed on every read. A session whose marker has
// expired is dropped.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(ctx context.Context, session *app.Session) error {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	// best-effort liveness marker
	_ = s.client.Set(ctx, sessionKey(session.ID()), "1", s.ttl).Err()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.ttl <= 0 {
		return session, ok
	}
	alive, err := s.client.Expire(ctx, sessionKey(id), s.ttl).Result()
	if err != nil {
		// Redis unavailable: keep serving the local copy.
		return session, true
	}
	if !alive {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, false
	}
	return session, true
}

// Len reports how many sessions are held in process.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return "quiz:session:" + id
}
