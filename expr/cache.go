package expr

import (
	"sync"

	"github.com/zeebo/xxh3"
)

type cacheEntry struct {
	input string
	exprs []ExpressionNode
}

// Cache memoizes parse results keyed by the xxh3 hash of the input. A full
// cache is emptied before the next insert.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]cacheEntry
}

// NewCache creates a cache holding at most size inputs.
func NewCache(size int) *Cache {
	return &Cache{
		size:    size,
		entries: make(map[uint64]cacheEntry, size),
	}
}

// Get returns the memoized result for input.
func (c *Cache) Get(input string) ([]ExpressionNode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[xxh3.HashString(input)]
	if !ok || e.input != input {
		return nil, false
	}
	return e.exprs, true
}

// Put stores the result for input.
func (c *Cache) Put(input string, exprs []ExpressionNode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.size {
		clear(c.entries)
	}
	c.entries[xxh3.HashString(input)] = cacheEntry{input: input, exprs: exprs}
}

// Len returns the number of memoized inputs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
