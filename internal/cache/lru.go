// Package cache wraps a bounded LRU cache used to avoid re-inflating
// the same loose/packed object repeatedly during a single command.
package cache

import (
	"errors"
	"sync"

	lru "github.com/golang/groupcache/lru"
)

// ErrInvalidSize is returned by NewLRU when asked for a cache that
// cannot hold anything.
var ErrInvalidSize = errors.New("cache size must be greater than 0")

// LRUKey may be any value that is comparable. See http://golang.org/ref/spec#Comparison_operators
type LRUKey = lru.Key

// LRU represents a bounded, concurrency-safe LRU cache of objects.
type LRU struct {
	cache *lru.Cache
	mu    sync.Mutex
}

// NewLRU creates a new LRU cache that holds at most maxEntries items.
func NewLRU(maxEntries int) (*LRU, error) {
	if maxEntries <= 0 {
		return nil, ErrInvalidSize
	}
	return &LRU{cache: lru.New(maxEntries)}, nil
}

// Get looks up a key's value from the cache.
func (c *LRU) Get(key LRUKey) (value interface{}, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cache.Get(key)
}

// Add adds a value to the cache.
func (c *LRU) Add(key LRUKey, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(key, value)
}

// Clear purges all stored items from the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Clear()
}

// Len returns the number of items in the cache.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cache.Len()
}
