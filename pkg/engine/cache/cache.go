// Package cache implements the bounded result cache for compliance
// evaluations.
//
// Entries are keyed by (device id, posture fingerprint, policy-set
// fingerprint), so any posture change or policy edit makes the old entry
// unreachable rather than stale; no manual invalidation exists or is
// needed. The cache is purely a performance optimization: a miss always
// falls back to full recomputation, never to a default answer.
package cache

import (
	"container/list"
	"fmt"
	"sync"
)

// Key identifies one cached evaluation result.
type Key struct {
	DeviceID           string
	PostureFingerprint string
	PolicyFingerprint  string
}

// String renders the key for logging.
func (k Key) String() string {
	return fmt.Sprintf("%s/%.12s/%.12s", k.DeviceID, k.PostureFingerprint, k.PolicyFingerprint)
}

// ResultCache is a thread-safe LRU cache of evaluation results with a
// bounded entry count. The zero value is not usable; construct with New.
type ResultCache[V any] struct {
	mu         sync.Mutex
	entries    map[Key]*list.Element
	order      *list.List // front = most recently used
	maxEntries int

	hits   uint64
	misses uint64
}

type entry[V any] struct {
	key   Key
	value V
}

// DefaultMaxEntries bounds the cache when no size is configured.
const DefaultMaxEntries = 10000

// New creates a result cache holding at most maxEntries entries. A
// non-positive maxEntries uses DefaultMaxEntries.
func New[V any](maxEntries int) *ResultCache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &ResultCache[V]{
		entries:    make(map[Key]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached value for the key, if present.
func (c *ResultCache[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.order.MoveToFront(elem)
	return elem.Value.(*entry[V]).value, true
}

// Put stores a value under the key, evicting the least recently used entry
// when the cache is full. Storing an existing key refreshes its value and
// recency.
func (c *ResultCache[V]) Put(key Key, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*entry[V]).value = value
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry[V]).key)
		}
	}

	c.entries[key] = c.order.PushFront(&entry[V]{key: key, value: value})
}

// Len returns the current number of cached entries.
func (c *ResultCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns the cumulative hit and miss counts.
func (c *ResultCache[V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge drops every entry. Counters are preserved.
func (c *ResultCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*list.Element)
	c.order.Init()
}
