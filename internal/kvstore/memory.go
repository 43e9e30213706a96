package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a process-local Store for development and tests. Data is
// lost on restart and is not shared between instances.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(value), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = clone(value)
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; exists {
		return false, nil
	}
	s.items[key] = clone(value)
	return true, nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, key, field, expected string, value []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[key]
	if !ok {
		return false, ErrNotFound
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(current, &doc); err != nil || doc == nil {
		return false, ErrMalformed
	}

	var got string
	if raw, ok := doc[field]; !ok || json.Unmarshal(raw, &got) != nil || got != expected {
		return false, nil
	}

	s.items[key] = clone(value)
	return true, nil
}

// Len reports the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
