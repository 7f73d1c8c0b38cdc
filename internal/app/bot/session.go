package bot

import "sync"

// Store keeps one Session per chat id. Sessions live for the process
// lifetime; a restart forces re-authentication.
type Store interface {
	Get(chatID int64) (Session, bool)
	Put(chatID int64, session Session)
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (m *MemoryStore) Get(chatID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[chatID]
	return session, ok
}

func (m *MemoryStore) Put(chatID int64, session Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[chatID] = session
}
