package registry

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu    sync.Mutex
	lines map[Kind][]json.RawMessage
	seen  map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lines: map[Kind][]json.RawMessage{},
		seen:  map[string]json.RawMessage{},
	}
}

func (s *MemoryStore) Append(_ context.Context, kind Kind, line json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[kind] = append(s.lines[kind], line)
	return nil
}

func (s *MemoryStore) AppendOnce(_ context.Context, kind Kind, dedupKey string, line json.RawMessage) (json.RawMessage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.seen[dedupKey]; ok {
		return stored, false, nil
	}
	s.seen[dedupKey] = line
	s.lines[kind] = append(s.lines[kind], line)
	return line, true, nil
}

func (s *MemoryStore) List(_ context.Context, kind Kind) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]json.RawMessage, len(s.lines[kind]))
	copy(out, s.lines[kind])
	return out, nil
}
