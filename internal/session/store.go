package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/ggph-smms/internal/model"
)

// Session is what a bearer token resolves to.
type Session struct {
	Token     string     `json:"token"`
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Store keeps sessions in memory. Tokens are random UUIDs.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, sessions: make(map[string]Session)}
}

// WithClock swaps the time source. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *Store) Create(u model.User) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{Token: uuid.NewString(), User: u, ExpiresAt: s.now().Add(s.ttl)}
	s.sessions[sess.Token] = sess
	return sess
}

// Get returns the live session for token. Expired sessions are dropped.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// RevokeUser ends every session of a user, e.g. after the account is deleted.
func (s *Store) RevokeUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if sess.User.ID == userID {
			delete(s.sessions, token)
		}
	}
}
