// internal/conversation/memory_store.go
package conversation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore - потокобезопасное хранилище сессий в памяти.
// Используется по умолчанию, когда Redis выключен.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]Session),
	}
}

// GetOrCreate возвращает копию сессии пользователя, создавая пустую при
// первом обращении
func (m *MemoryStore) GetOrCreate(_ context.Context, userID int64) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[userID]
	m.mu.RUnlock()

	if !ok {
		s = Session{
			UserID:    userID,
			Phase:     PhaseIdle,
			UpdatedAt: time.Now().UTC(),
		}
	}

	copied := s
	return &copied, nil
}

// Save перезаписывает сессию пользователя
func (m *MemoryStore) Save(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = *session
	return nil
}
