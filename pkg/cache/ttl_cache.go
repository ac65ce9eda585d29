// Package cache is a generic in-memory TTL cache.
//
// Every entry carries its own expiry instant, set at write time from the ttl the
// caller passes. A read at or after that instant is a miss even if the entry is
// still in the map; expired entries are physically removed by a periodic sweep
// or overwritten by the next Set.
//
// Thread safety: a sync.RWMutex guards the map, so readers run in parallel and
// writers are exclusive. GetOrCompute additionally collapses concurrent misses
// on the same key into a single compute call.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"
)

// entry is a single cached value.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a generic in-memory TTL cache.
//
//	c := cache.New[string, json.RawMessage](5*time.Minute, nil)
//	defer c.Close()
//	c.Set("details:french:570", payload, time.Hour)
//	v, ok := c.Get("details:french:570")
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	clock   clock.Clock
	flight  singleflight.Group

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New creates a cache. A positive cleanupInterval starts a goroutine that
// removes expired entries; call Close to stop it. A nil clk uses the wall clock.
func New[K comparable, V any](cleanupInterval time.Duration, clk clock.Clock) *TTLCache[K, V] {
	if clk == nil {
		clk = clock.New()
	}

	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		clock:       clk,
		stopCleanup: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}

	return c
}

// Get returns (value, true) when the key exists and has not expired,
// (zero value, false) otherwise.
//
// Expired entries are left in place here so Get only needs the read lock.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for ttl, replacing any previous entry.
// A non-positive ttl removes the key instead.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.entries, key)
		return
	}

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
}

// GetOrCompute returns the cached value for key, or calls compute, stores its
// result for ttl and returns it. Errors from compute are returned as-is and
// nothing is stored.
//
// Concurrent callers missing on the same key share one compute call. The
// shared call runs under context.WithoutCancel, so one caller giving up does
// not fail the others; compute must bound its own duration. A caller whose
// ctx ends first gets ctx.Err() while the computation carries on for the
// rest. Keys are grouped by their fmt.Sprint form, so K must not have two
// values that print the same.
func (c *TTLCache[K, V]) GetOrCompute(ctx context.Context, key K, ttl time.Duration, compute func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(fmt.Sprint(key), func() (any, error) {
		// Another flight may have populated the key while we waited.
		if v, ok := c.Get(key); ok {
			return v, nil
		}

		v, err := compute(shared)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Delete removes key.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len returns the number of stored entries, expired ones included.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *TTLCache[K, V]) cleanupLoop(interval time.Duration) {
	ticker := c.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

// evictExpired removes expired entries and returns how many were dropped.
func (c *TTLCache[K, V]) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}
