package store

import (
	"sync"
)

// MemoryKV is a concurrency-safe in-memory KV. State lives only as long as the
// process.
type MemoryKV struct {
	mu sync.RWMutex

	// key: persisted state key, value: raw JSON text
	data map[string]string
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string]string),
	}
}

// Get returns the raw value stored under key.
func (s *MemoryKV) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemoryKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
