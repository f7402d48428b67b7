package users

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions binds opaque cookie tokens to authenticated usernames.
type Sessions struct {
	mu      sync.RWMutex
	byToken map[string]string
}

func NewSessions() *Sessions {
	return &Sessions{byToken: make(map[string]string)}
}

func (s *Sessions) Create(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = username
	return token
}

func (s *Sessions) Username(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	username, exists := s.byToken[token]
	return username, exists
}

func (s *Sessions) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
