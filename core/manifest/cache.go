package manifest

import (
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Stats counts cache activity.
type Stats struct {
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	Computations int64 `json:"computations"`
}

// Cache memoizes manifests by key.
//
// For a given key at most one compute function runs at a time; concurrent
// callers for that key wait for it and receive the same manifest. Errors are
// returned to every waiting caller but never cached.
type Cache struct {
	mu      sync.RWMutex
	bounded *lru.Cache[string, *Manifest]
	entries map[string]*Manifest
	sf      singleflight.Group

	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64
}

// NewCache creates a cache.
//
// With capacity > 0 the cache keeps at most capacity manifests and evicts the
// least recently used one. With capacity <= 0 it is unbounded and only shrinks
// when Purge is called, typically on configuration reload.
func NewCache(capacity int) (*Cache, error) {
	c := &Cache{}
	if capacity > 0 {
		bounded, err := lru.New[string, *Manifest](capacity)
		if err != nil {
			return nil, fmt.Errorf("failed to create manifest cache: %w", err)
		}
		c.bounded = bounded
	} else {
		c.entries = make(map[string]*Manifest)
	}
	return c, nil
}

func (c *Cache) get(key string) (*Manifest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	m, ok := c.entries[key]
	return m, ok
}

func (c *Cache) set(key string, m *Manifest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		c.bounded.Add(key, m)
		return
	}
	c.entries[key] = m
}

// GetOrCompute returns the cached manifest for key, or runs compute to build it.
func (c *Cache) GetOrCompute(key string, compute func() (*Manifest, error)) (*Manifest, error) {
	// Fast path
	if m, ok := c.get(key); ok {
		c.hits.Add(1)
		return m, nil
	}
	c.misses.Add(1)

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check: a computation for this key may have finished between
		// the fast path and entering the flight.
		if m, ok := c.get(key); ok {
			return m, nil
		}

		c.computations.Add(1)
		m, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(key, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Manifest), nil
}

// Len returns the number of cached manifests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.entries)
}

// Purge drops every cached manifest.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		c.bounded.Purge()
		return
	}
	c.entries = make(map[string]*Manifest)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Computations: c.computations.Load(),
	}
}
