package survey

import (
	"errors"
	"sync"
	"time"

	"github.com/ayberkarici/fucom/internal/fucom"
)

var ErrSessionNotFound = errors.New("session not found")

type sessionEntry struct {
	mu      sync.Mutex
	session *fucom.Session
	touched time.Time
}

// SessionStore keeps in-progress survey sessions in memory. Sessions idle for
// longer than ttl are dropped on the next Create.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	catalog  fucom.Catalog
	policy   fucom.RegeneratePolicy
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(c fucom.Catalog, policy fucom.RegeneratePolicy, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		catalog:  c,
		policy:   policy,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Create() (string, fucom.Step, fucom.Response) {
	sess := fucom.NewSession(s.catalog, s.policy)
	id := generateToken()
	s.mu.Lock()
	now := s.now()
	s.pruneLocked(now)
	s.sessions[id] = &sessionEntry{session: sess, touched: now}
	s.mu.Unlock()
	return id, sess.Step(), sess.Response()
}

func (s *SessionStore) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if e.mu.TryLock() {
			if now.Sub(e.touched) > s.ttl {
				delete(s.sessions, id)
			}
			e.mu.Unlock()
		}
	}
}

// With runs fn with exclusive access to session id.
func (s *SessionStore) With(id string, fn func(*fucom.Session) error) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = s.now()
	return fn(e.session)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
