// Package session holds short-lived analysis sessions linking an extracted
// document text to an identifier for the later reply-generation step.
// Sessions are an ephemeral cache, not a source of truth: the store is
// bounded by TTL and capacity so memory cannot grow without limit.
package session

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("analysis session not found")

// Session is one stored analysis session.
type Session struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

// Store is an in-memory, mutex-guarded session store with TTL-based expiry
// and a capacity bound. Safe for concurrent use; reads are non-destructive.
type Store struct {
	mu         sync.Mutex
	sessions   map[string]Session
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewStore creates a session store. Non-positive ttl or maxEntries fall
// back to 1 hour and 1024 entries.
func NewStore(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Store{
		sessions:   make(map[string]Session),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores the extracted text under the given id. When the store is at
// capacity it first sweeps expired entries, then evicts the oldest session.
func (s *Store) Put(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxEntries {
		s.sweepLocked()
	}
	if len(s.sessions) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.sessions[id] = Session{ID: id, Text: text, CreatedAt: s.now()}
}

// Get returns the session for id. Expired entries are dropped lazily.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if s.now().Sub(sess.CreatedAt) > s.ttl {
		delete(s.sessions, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Len returns the number of stored sessions, including not-yet-swept
// expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.CreatedAt.Before(oldest) {
			oldestID = id
			oldest = sess.CreatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
