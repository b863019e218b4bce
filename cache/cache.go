// Package cache holds process-wide values that are expensive to load, such
// as the similarity index and the Q&A listing.
//
// A value is loaded on first use and reused until it is invalidated or, when
// a TTL is set, until it is older than the TTL. With a zero TTL the value
// stays as loaded for the life of the process unless Invalidate or Refresh
// is called.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Loader[T any] func(ctx context.Context) (T, error)

type Cache[T any] struct {
	name string
	load Loader[T]
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	value    T
	loaded   bool
	loadedAt time.Time
	// gen changes on Invalidate; a load started under an older gen is not stored.
	gen uint64

	group singleflight.Group
}

func New[T any](name string, ttl time.Duration, load Loader[T]) *Cache[T] {
	return &Cache[T]{
		name: name,
		load: load,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the cached value, loading it if absent or stale. Concurrent
// callers share a single load. Failed loads are not cached.
func (c *Cache[T]) Get(ctx context.Context) (T, error) {
	c.mu.RLock()
	if c.fresh() {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	return c.reload(ctx)
}

// Refresh loads a new value now and replaces the cached one on success.
func (c *Cache[T]) Refresh(ctx context.Context) (T, error) {
	return c.reload(ctx)
}

// Invalidate drops the cached value; the next Get loads it again.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.loaded = false
	c.gen++
}

// LoadedAt reports when the current value was loaded.
func (c *Cache[T]) LoadedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt, c.loaded
}

func (c *Cache[T]) fresh() bool {
	if !c.loaded {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl
}

func (c *Cache[T]) reload(ctx context.Context) (T, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	key := c.name + "/" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(key, func() (any, error) {
		v, err := c.load(ctx)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.value = v
			c.loaded = true
			c.loadedAt = c.now()
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
