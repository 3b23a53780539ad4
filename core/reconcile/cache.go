package reconcile

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type cacheEntry[T any] struct {
	value T
	built time.Time
}

// ViewCache holds values derived from the mirrored catalog, such as composed store listings.
// Entries expire after the TTL and are dropped wholesale when a reconciliation run completes.
// Concurrent misses for the same key are coalesced with singleflight.
//
// Every Invalidate bumps the generation. A build that started before the bump still answers
// its callers but is not stored, and later misses do not join it.
type ViewCache[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	gen     uint64
	entries map[string]cacheEntry[T]
	sf      singleflight.Group
}

// NewViewCache creates a cache. A zero TTL disables caching.
func NewViewCache[T any](ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{ttl: ttl, entries: make(map[string]cacheEntry[T])}
}

// GetOrBuild returns the cached value for key, or builds and stores it.
func (c *ViewCache[T]) GetOrBuild(key string, build func() (T, error)) (T, error) {
	if c.ttl <= 0 {
		return build()
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok && time.Since(entry.built) <= c.ttl {
		return entry.value, nil
	}

	v, err, _ := c.sf.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && time.Since(entry.built) <= c.ttl {
			return entry.value, nil
		}

		value, err := build()
		if err != nil {
			return value, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[key] = cacheEntry[T]{value: value, built: time.Now()}
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every entry whose key starts with prefix. An empty prefix drops everything.
func (c *ViewCache[T]) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if prefix == "" {
		c.entries = make(map[string]cacheEntry[T])
		return
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}
