package testutil

import (
	"context"
	"fmt"
	"sync"
)

// MemSessionStore implements ports.SessionStore in memory for tests.
type MemSessionStore struct {
	mu      sync.Mutex
	next    int
	byToken map[string]int64
}

func NewMemSessionStore() *MemSessionStore {
	return &MemSessionStore{byToken: make(map[string]int64)}
}

// Put registers an existing token, for tests that need a known value.
func (s *MemSessionStore) Put(token string, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = userID
}

func (s *MemSessionStore) Create(ctx context.Context, userID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	token := fmt.Sprintf("test-token-%d", s.next)
	s.byToken[token] = userID
	return token, nil
}

func (s *MemSessionStore) Get(ctx context.Context, token string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	return id, ok, nil
}

func (s *MemSessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
	return nil
}

func (s *MemSessionStore) Ping(ctx context.Context) error { return nil }
