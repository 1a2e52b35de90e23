package session

import (
	"context"
	"sync"
	"time"

	"github.com/mkuznecov/zapisly/internal/domain"
)

type memoryEntry struct {
	session   domain.BookingSession
	expiresAt time.Time
}

// MemoryStore хранилище сессий в памяти процесса.
// Используется при выключенном Redis и в тестах.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore создает пустое in-memory хранилище сессий
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get возвращает сессию по ключу; отсутствующая или истекшая - (nil, nil)
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.BookingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	sess := entry.session
	return &sess, nil
}

// Put сохраняет сессию с указанным TTL, перезаписывая существующую.
// Заодно выметает истекшие записи: Get чистит только свой ключ, и без
// этого брошенные чаты копились бы в памяти бессрочно
func (s *MemoryStore) Put(_ context.Context, key string, sess *domain.BookingSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = memoryEntry{
		session:   *sess,
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Forget удаляет сессию
func (s *MemoryStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
