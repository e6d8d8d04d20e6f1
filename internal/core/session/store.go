// Package session holds the access and refresh tokens for the active user.
// Stores are the only place tokens live; the API client reads and writes
// through the Store interface and never keeps its own copy.
package session

import "sync"

// Store is the narrow surface the API client depends on. The only writers
// are sign-in (SetTokens), a successful refresh (SetAccessToken) and
// sign-out (Clear).
type Store interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string)
	SetAccessToken(access string)
	Clear()
}

// MemoryStore keeps tokens in process memory. Suitable for embedding the
// client in another program and for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
}

func (s *MemoryStore) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}
