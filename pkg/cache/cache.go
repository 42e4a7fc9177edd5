package cache

import "errors"

// ErrNotFound is returned by Load when the key has never been stored
var ErrNotFound = errors.New("cache: key not found")

// Cache is an interface that wraps multiple key value stores.
// Store writes all updates together or fails.
type Cache interface {
	Load(key string) ([]byte, error)
	Store(updates map[string][]byte) error
	Close()
}
