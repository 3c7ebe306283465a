// Package opcache implements the process-wide operator cache (spec.md §5,
// §9 "Global operator cache"): operator instances keyed by (operator ref,
// init args, tag), reference-counted across the pipelines that share them,
// with construction serialized per key so concurrent first-use never
// double-instantiates.
//
// The teacher's expression engine (pkg/expression/expression.go) memoizes a
// single shared *expr.Env behind a sync.Once; opcache generalizes that
// pattern to arbitrary per-key instances using golang.org/x/sync/singleflight
// so each distinct key gets its own "build exactly once, then reuse" gate
// instead of one gate for the whole cache.
package opcache

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Builder constructs the instance for a cache miss. It is invoked at most
// once per key while any caller holds a reference.
type Builder func() (interface{}, error)

type entry struct {
	value    interface{}
	refCount int
}

// Cache is a process-wide, reference-counted, key-serialized instance cache.
// The zero value is not usable; construct with New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Key derives a cache key from an operator reference, its init args/kwargs,
// and its cache-partition tag. Callers that already have a stable string
// identity for (ref, args, tag) may bypass Key and call Acquire directly.
func Key(ref string, initArgs []interface{}, initKwargs map[string]interface{}, tag string) string {
	return fmt.Sprintf("%s|%v|%v|%s", ref, initArgs, initKwargs, tag)
}

// Acquire returns the cached instance for key, building it via build if this
// is the first live reference. Concurrent Acquire calls for the same key
// block on one another so build runs exactly once; callers must pair every
// successful Acquire with a Release.
func (c *Cache) Acquire(key string, build Builder) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.refCount++
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := build()
		if err != nil {
			return nil, err
		}
		// Publish the instance before Do returns so a caller arriving after
		// this flight finds the entry instead of starting a second build.
		c.mu.Lock()
		if _, ok := c.entries[key]; !ok {
			c.entries[key] = &entry{value: v}
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		// The flight published the entry (or another caller already holds
		// it); take this caller's reference.
		e.refCount++
		return e.value, nil
	}
	c.entries[key] = &entry{value: v, refCount: 1}
	return v, nil
}

// Release drops one reference to key's instance. The instance is evicted
// once its reference count reaches zero; Release on an unknown key is a
// no-op, matching teardown code that releases defensively.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.refCount--
	if e.refCount <= 0 {
		delete(c.entries, key)
	}
}

// Len reports the number of distinct live keys, for tests and health checks.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RefCount reports the live reference count for key, or 0 if absent.
func (c *Cache) RefCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.refCount
	}
	return 0
}
