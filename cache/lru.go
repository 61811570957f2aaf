// Package cache holds the lookup cache that sits in front of the birthday
// store.
package cache

import (
	"context"
	"fmt"
	"sync"
)

// An LRU uses a doubly-linked list and a lookup map into that list to
// implement a least-recently-used cache.
//
// https://en.wikipedia.org/wiki/Cache_replacement_policies#Simple_recency-based_policies
//
// An LRU is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mux      sync.Mutex
	cap      int
	lookup   map[K]*entry[K, V]
	oldest   *entry[K, V]
	youngest *entry[K, V]

	// epoch counts invalidations. A load that straddles one must not be
	// cached, as it may have read the value the invalidation was for.
	epoch uint64
}

type entry[K comparable, V any] struct {
	k       K
	v       V
	younger *entry[K, V]
	older   *entry[K, V]
}

// New creates and returns a new LRU with capacity `cap`. Once `cap` is
// exceeded, the least-recently accessed entries are evicted until the LRU
// holds `cap` entries. A `cap` below 1 is treated as 1.
func New[K comparable, V any](cap int) *LRU[K, V] {
	cap = max(cap, 1)
	return &LRU[K, V]{
		cap: cap,
		// room for one entry over capacity before eviction runs
		lookup: make(map[K]*entry[K, V], cap+1),
	}
}

// Lookup returns the cached value for key and marks it as the most recently
// used entry. If no entry is present, `load` is called and its value is added
// to the cache. Errors from `load` are returned wrapped and nothing is cached.
//
// `load` runs without the cache lock held, so concurrent misses for the same
// key may each call it; the last one to finish wins. If Invalidate is called
// while `load` runs, its value is returned but not cached.
func (c *LRU[K, V]) Lookup(
	ctx context.Context,
	key K,
	load func(context.Context, K) (V, error),
) (V, error) {
	v, epoch, ok := c.get(key)
	if ok {
		return v, nil
	}

	value, err := load(ctx, key)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("loading value for key: %w", err)
	}

	c.put(key, value, epoch)
	return value, nil
}

// Invalidate drops key from the cache, if present.
func (c *LRU[K, V]) Invalidate(key K) {
	defer c.mux.Unlock()
	c.mux.Lock()

	c.epoch++
	if e, ok := c.lookup[key]; ok {
		c.unlink(e)
		delete(c.lookup, key)
	}
}

// Len reports the number of cached entries.
func (c *LRU[K, V]) Len() int {
	defer c.mux.Unlock()
	c.mux.Lock()

	return len(c.lookup)
}

// get returns the cached value for key and the current epoch.
func (c *LRU[K, V]) get(key K) (V, uint64, bool) {
	defer c.mux.Unlock()
	c.mux.Lock()

	e, ok := c.lookup[key]
	if !ok {
		var zero V
		return zero, c.epoch, false
	}
	c.unlink(e)
	c.pushYoungest(e)
	return e.v, c.epoch, true
}

// put caches value for key unless the cache has been invalidated since epoch.
func (c *LRU[K, V]) put(key K, value V, epoch uint64) {
	defer c.mux.Unlock()
	c.mux.Lock()

	if c.epoch != epoch {
		return
	}

	if e, ok := c.lookup[key]; ok {
		e.v = value
		c.unlink(e)
		c.pushYoungest(e)
		return
	}

	e := &entry[K, V]{k: key, v: value}
	c.pushYoungest(e)
	c.lookup[key] = e

	for len(c.lookup) > c.cap && c.oldest != nil {
		o := c.oldest
		c.unlink(o)
		delete(c.lookup, o.k)
	}
}

// unlink removes e from the recency list. e stays in the lookup map.
func (c *LRU[K, V]) unlink(e *entry[K, V]) {
	if e.older != nil {
		e.older.younger = e.younger
	} else {
		c.oldest = e.younger
	}
	if e.younger != nil {
		e.younger.older = e.older
	} else {
		c.youngest = e.older
	}
	e.older, e.younger = nil, nil
}

func (c *LRU[K, V]) pushYoungest(e *entry[K, V]) {
	e.older = c.youngest
	if c.youngest != nil {
		c.youngest.younger = e
	}
	c.youngest = e
	if c.oldest == nil {
		c.oldest = e
	}
}
