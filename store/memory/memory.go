// Package memory provides an in-process Store backed by a mutex-guarded map.
// Intended for tests and single-process deployments; values are held as-is,
// without serialization.
package memory

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/cachekv/store"
)

// Store keeps values in-process. Safe for concurrent use.
type Store[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

var _ store.Store[int] = (*Store[int])(nil)

func New[V any]() *Store[V] {
	return &Store[V]{m: make(map[string]V)}
}

func (s *Store[V]) Set(_ context.Context, key string, value V) error {
	s.mu.Lock()
	s.m[key] = value
	s.mu.Unlock()
	return nil
}

func (s *Store[V]) Get(_ context.Context, key string, def V) (V, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *Store[V]) GetOrFail(_ context.Context, key string) (V, error) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, store.Missing(key)
	}
	return v, nil
}

// GetMultiple acquires the read lock once and reads all requested keys.
// this avoids per-key lock/unlock overhead.
func (s *Store[V]) GetMultiple(_ context.Context, keys []string, def V) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	s.mu.RLock()
	for _, k := range keys {
		if v, ok := s.m[k]; ok {
			out[k] = v
		} else {
			out[k] = def
		}
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Store[V]) GetMultipleOrFail(_ context.Context, keys []string) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	var missing []string
	s.mu.RLock()
	for _, k := range keys {
		if v, ok := s.m[k]; ok {
			out[k] = v
		} else {
			missing = append(missing, k)
		}
	}
	s.mu.RUnlock()
	if len(missing) > 0 {
		return nil, store.Missing(missing...)
	}
	return out, nil
}

func (s *Store[V]) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store[V]) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.m[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *Store[V]) Clear(_ context.Context) error {
	s.mu.Lock()
	s.m = make(map[string]V)
	s.mu.Unlock()
	return nil
}
