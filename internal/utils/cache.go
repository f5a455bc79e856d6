package utils

import (
	"os"
	"sync"
	"time"
)

// stamp identifies the version of a file a cached value was derived from
type stamp struct {
	modTime time.Time
	size    int64
}

type cacheEntry[V any] struct {
	value V
	stamp *stamp
}

// Cache is a concurrency-safe map whose entries can be tied to a file on
// disk. Tied entries are dropped once the file changes.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]cacheEntry[V]
}

// NewCache creates an empty cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]cacheEntry[V])}
}

// Get returns the value stored under key without checking any file
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry.value, ok
}

// Set stores a value that never goes stale
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value}
}

// Fresh returns the value stored under key if path is unchanged since it was
// stored. A stale entry is removed.
func (c *Cache[K, V]) Fresh(key K, path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if entry.stamp == nil {
		return entry.value, true
	}

	current, err := statFile(path)
	if err == nil && current.modTime.Equal(entry.stamp.modTime) && current.size == entry.stamp.size {
		return entry.value, true
	}

	c.Delete(key)
	return zero, false
}

// Store stores a value derived from the current version of path
func (c *Cache[K, V]) Store(key K, value V, path string) error {
	s, err := statFile(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[V]{value: value, stamp: s}
	return nil
}

// Load returns the fresh value for key, calling load and storing its result
// on a miss. Errors from load are not cached.
func (c *Cache[K, V]) Load(key K, path string, load func() (V, error)) (V, error) {
	if value, ok := c.Fresh(key, path); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	// the file may vanish between load and stat; the value is still good
	_ = c.Store(key, value, path)
	return value, nil
}

// Delete removes key
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]cacheEntry[V])
}

// Len returns the number of entries
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func statFile(path string) (*stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &stamp{modTime: info.ModTime(), size: info.Size()}, nil
}
