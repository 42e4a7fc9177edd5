package cache

import (
	"errors"
	"sync"
)

// ErrClosed is returned by a MemoryCache after Close
var ErrClosed = errors.New("cache: closed")

// MemoryCache keeps everything in process memory. It backs the
// "memory" backend and lets tests inject read and write failures.
type MemoryCache struct {
	mux     sync.RWMutex
	entries map[string][]byte
	closed  bool

	// LoadErr and StoreErr, when set, are returned instead of touching the map
	LoadErr  error
	StoreErr error
}

// NewMemoryCache returns an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (m *MemoryCache) Load(key string) ([]byte, error) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	v, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryCache) Store(updates map[string][]byte) error {
	m.mux.Lock()
	defer m.mux.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.StoreErr != nil {
		return m.StoreErr
	}
	for k, v := range updates {
		m.entries[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryCache) Close() {
	m.mux.Lock()
	m.closed = true
	m.mux.Unlock()
}
