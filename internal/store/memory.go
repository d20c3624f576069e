package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	// ErrNotFound is returned when no session exists for a given id.
	ErrNotFound = errors.New("session not found")
)

type session struct {
	orchestrator *weather.Orchestrator
	lastSeen     time.Time
}

// SessionStore is a concurrency-safe in-memory registry of lookup sessions,
// one Orchestrator per session.
type SessionStore struct {
	mu sync.RWMutex

	// key: session id
	sessions map[string]*session

	// retention configuration
	maxSessions int           // max number of live sessions
	maxAge      time.Duration // idle time after which a session is evicted

	now func() time.Time
}

// NewSessionStore creates a new SessionStore with optional limits.
// If maxSessions or maxAge is <= 0, it is treated as unlimited.
func NewSessionStore(maxSessions int, maxAge time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*session),
		maxSessions: maxSessions,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// Create registers o under a fresh session id and enforces the session limit
// by evicting the least recently used sessions.
func (s *SessionStore) Create(o *weather.Orchestrator) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &session{orchestrator: o, lastSeen: s.now()}

	for s.maxSessions > 0 && len(s.sessions) > s.maxSessions {
		s.evictOldestLocked()
	}

	return id
}

func (s *SessionStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID = id
			oldest = sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}

// Get returns the orchestrator of a session and marks the session as used.
func (s *SessionStore) Get(id string) (*weather.Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.lastSeen = s.now()
	return sess.orchestrator, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than maxAge and returns how many were removed.
func (s *SessionStore) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
