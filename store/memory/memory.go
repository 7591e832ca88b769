// Package memory is the in-process store backend.
package memory

import (
	"sync"

	"github.com/govm-net/riffs/store"
)

func init() {
	if err := store.Register(store.MemoryBackend, func(map[string]any) (store.Store, error) {
		return New(), nil
	}); err != nil {
		panic(err)
	}
}

// Store keeps entries in a map.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte{}, v...), nil
}

func (s *Store) Has(key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[string(key)]
	return ok, nil
}

func (s *Store) Commit(b *store.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range b.Ops() {
		if op.Delete() {
			delete(s.data, string(op.Key))
			continue
		}
		s.data[string(op.Key)] = append([]byte{}, op.Value...)
	}
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *Store) Close() error { return nil }
