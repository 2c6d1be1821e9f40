package store

import (
	"context"
	"sync"
)

// memoryStore keeps values in a map. Values are copied in and out so callers
// never share backing arrays with the store.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return cloneBytes(v), ok, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = cloneBytes(value)
	return nil
}

func (s *memoryStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := validateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	current, found := s.values[key]
	next, err := fn(cloneBytes(current), found)
	if err != nil {
		return err
	}
	if next != nil {
		s.values[key] = cloneBytes(next)
	}
	return nil
}

func (s *memoryStore) Close() error { return nil }
