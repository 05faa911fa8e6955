package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	email     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with the same expiry
// contract as RedisStore. Sessions are lost on restart. Used when no
// Redis is configured, and as the session store in tests.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, email string) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = memoryEntry{email: email, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

// Get expires lazily: an entry past its deadline is removed on lookup.
func (s *MemoryStore) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return "", nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, token)
		return "", nil
	}
	return entry.email, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
