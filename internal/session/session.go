// Package session holds per-conversation message history. The in-memory
// store is authoritative; the optional snapshot file only survives restarts.
package session

import (
	"sync"

	"github.com/jslattery/product-agent/internal/chat"
)

// Store keeps conversation histories keyed by session id.
type Store interface {
	// Get returns a copy of the session's history; the second value is
	// false when the session does not exist.
	Get(id string) ([]chat.Message, bool)
	// Put replaces the session's history.
	Put(id string, history []chat.Message)
	// Delete removes the session, reporting whether it existed.
	Delete(id string) bool
	// Acquire serialises request handling per session. The returned func
	// releases the lock.
	Acquire(id string) func()
}

// MemoryStore is the default Store. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]chat.Message
	locks    map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]chat.Message),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) Get(id string) ([]chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return chat.Clone(history), true
}

func (s *MemoryStore) Put(id string, history []chat.Message) {
	copied := chat.Clone(history)
	s.mu.Lock()
	s.sessions[id] = copied
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	delete(s.locks, id)
	return ok
}

// Acquire locks the session so overlapping requests for the same id are
// processed one at a time. Different sessions proceed in parallel.
func (s *MemoryStore) Acquire(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
