package conversation

import (
	"context"
	"sync"
	"time"
)

// Store holds in-progress booking sessions keyed by user id. Per-key
// updates are atomic with respect to concurrent reads of the same key;
// last write wins.
type Store interface {
	// Get returns the live session for the user, or nil when absent or
	// expired.
	Get(ctx context.Context, userID string) (*Session, error)
	// Put replaces any prior session for the user and refreshes its TTL.
	Put(ctx context.Context, session *Session) error
	// Remove deletes the session. Removing an absent session is not an
	// error.
	Remove(ctx context.Context, userID string) error
	// Exists reports whether the user has a live session.
	Exists(ctx context.Context, userID string) (bool, error)
}

// MemoryStore is an in-process Store. Sessions carry a deadline and expired
// entries are treated as absent, so an abandoned dialogue does not block
// its user forever.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl.
// ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session for the user, or nil.
func (s *MemoryStore) Get(ctx context.Context, userID string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.expired(entry) {
		// Lazy eviction on read.
		s.mu.Lock()
		if cur, still := s.sessions[userID]; still && s.expired(cur) {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, nil
	}
	session := entry.session
	return &session, nil
}

// Put replaces any prior session for the user.
func (s *MemoryStore) Put(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{session: *session}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.sessions[session.UserID] = entry
	return nil
}

// Remove deletes the session for the user.
func (s *MemoryStore) Remove(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// Exists reports whether the user has a live session.
func (s *MemoryStore) Exists(ctx context.Context, userID string) (bool, error) {
	session, err := s.Get(ctx, userID)
	return session != nil, err
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}
