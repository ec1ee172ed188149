package board

import (
	"context"
	"sync"
	"time"
)

// SessionStore is the persistence contract for opaque session tokens. The
// store owns expiry: Get must never return a record past its TTL.
type SessionStore interface {
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, bool, error)
	Destroy(ctx context.Context, token string) error
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore keeps session state in-memory. It is safe for concurrent
// use and intended for development, tests, and single-instance deployments.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

// NewMemorySessionStore constructs an in-memory store implementation.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

// Set records the user id for the provided token with the given TTL.
func (s *MemorySessionStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	s.sessions[token] = memorySession{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

// Get retrieves the user id for the provided token. Expired entries are
// dropped lazily.
func (s *MemorySessionStore) Get(ctx context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	record, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}

	if time.Now().After(record.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", false, nil
	}

	return record.userID, true, nil
}

// Destroy removes the session token from the store.
func (s *MemorySessionStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// PurgeExpired removes any expired sessions from the store.
func (s *MemorySessionStore) PurgeExpired(now time.Time) {
	s.mu.Lock()
	for token, record := range s.sessions {
		if now.After(record.expiresAt) {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
}
