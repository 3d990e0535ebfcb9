// Package cache provides a thread-safe LRU cache of compiled expressions.
//
// Entries are keyed by the xxhash digest of the serialized document, so
// callers that evaluate the same expression document many times (one metric
// per team, say) skip parsing and overload resolution after the first call.
//
// # Example
//
//	c := cache.New(1024)
//	expr, err := c.GetOrCompile(doc, func() (*provider.Expression, error) {
//	    return parser.Compile(doc)
//	})
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/sandrolain/ddexpr/pkg/provider"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 256

type entry struct {
	key  uint64
	doc  string
	expr *provider.Expression
}

// Cache is a thread-safe LRU (Least Recently Used) cache for compiled expressions.
// Once the capacity is reached, the least recently accessed entry is evicted.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[uint64]*list.Element

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits   uint64
	Misses uint64
	Len    int
}

// New creates a new LRU cache with the given capacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[uint64]*list.Element, capacity),
	}
}

// Key returns the cache key of a serialized document.
func Key(doc []byte) uint64 {
	return xxhash.Sum64(doc)
}

// Get returns the expression compiled from doc, if cached.
func (c *Cache) Get(doc []byte) (*provider.Expression, bool) {
	key := Key(doc)
	c.mu.RLock()
	expr, ok := c.lookupLocked(key, doc)
	alreadyFront := ok && c.ll.Front() == c.items[key]
	c.mu.RUnlock()
	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !alreadyFront {
		c.mu.Lock()
		// the entry may have been evicted or replaced since the read lock was released
		if expr, ok = c.lookupLocked(key, doc); ok {
			c.ll.MoveToFront(c.items[key])
		}
		c.mu.Unlock()
		if !ok {
			c.misses.Add(1)
			return nil, false
		}
	}
	c.hits.Add(1)
	return expr, true
}

// lookupLocked returns the entry for doc. Digests can collide, so the stored
// document decides. Must be called with c.mu held.
func (c *Cache) lookupLocked(key uint64, doc []byte) (*provider.Expression, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if e.doc != string(doc) {
		return nil, false
	}
	return e.expr, true
}

// Set stores the expression compiled from doc, evicting the least recently used entry when full.
func (c *Cache) Set(doc []byte, expr *provider.Expression) {
	key := Key(doc)
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.doc, e.expr = string(doc), expr
		c.ll.MoveToFront(el)
		return
	}
	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}
	c.items[key] = c.ll.PushFront(&entry{key: key, doc: string(doc), expr: expr})
}

// GetOrCompile returns the cached expression for doc, or calls compile and
// caches its result. Failed compilations are not cached.
func (c *Cache) GetOrCompile(doc []byte, compile func() (*provider.Expression, error)) (*provider.Expression, error) {
	if expr, ok := c.Get(doc); ok {
		return expr, nil
	}
	expr, err := compile()
	if err != nil {
		return nil, err
	}
	c.Set(doc, expr)
	return expr, nil
}

// Len returns the number of entries currently in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.Len()}
}

// Invalidate removes the entry for doc.
func (c *Cache) Invalidate(doc []byte) {
	key := Key(doc)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[uint64]*list.Element, c.capacity)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *Cache) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
