// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cache

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Cache is a generic thread-safe build-once cache.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]V),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Peek retrieves a value without recording a hit or miss.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	return v, ok
}

// Set stores a value, replacing any previous value for key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value
}

// GetOrCreate returns the cached value for key or builds it with create.
// create is called under lock to prevent duplicate creation. If create
// fails, nothing is stored and the error is returned; a later call will
// try again.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.entries[key] = v
	return v, nil
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		return true
	}
	return false
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]V)
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Keys returns the cached keys ordered by less.
func (c *Cache[K, V]) Keys(less func(a, b K) bool) []K {
	c.mu.Lock()
	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:    c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits counts lookups that found an entry.
	Hits uint64
	// Misses counts lookups that did not, including GetOrCreate builds.
	Misses uint64
}
