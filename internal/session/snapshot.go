package session

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/jslattery/product-agent/internal/chat"
)

// Snapshot model: tool calls and tool results are persisted alongside text
// so restored sessions keep their follow-up context.

// Snapshot writes every session to path as indented JSON.
func (s *MemoryStore) Snapshot(path string) error {
	s.mu.RLock()
	out := make(map[string][]chat.Message, len(s.sessions))
	for id, history := range s.sessions {
		out[id] = history
	}
	b, err := json.MarshalIndent(out, "", " ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Restore loads a snapshot written by Snapshot. A missing file is not an
// error; the store simply starts empty.
func (s *MemoryStore) Restore(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var sessions map[string][]chat.Message
	if err := json.Unmarshal(b, &sessions); err != nil {
		return err
	}
	s.mu.Lock()
	for id, history := range sessions {
		s.sessions[id] = history
	}
	s.mu.Unlock()
	return nil
}
