package filtersql

import (
	"sync"
	"time"
)

// cacheKey identifies a translation. The same filter translated with a
// different shift renders different placeholders, and a lower depth limit
// may reject what a higher one accepted.
type cacheKey struct {
	Filter   string
	Shift    int
	MaxDepth int
}

// cacheEntry stores the outcome of a translation, including failures.
type cacheEntry struct {
	result    *Result
	err       error
	expiresAt time.Time // zero means no expiry
}

// Cache stores translation results.
// It is safe for concurrent use from multiple goroutines.
//
// Implementations should cache failed translations too; a malformed filter
// stays malformed.
type Cache interface {
	// Get retrieves a cached translation.
	// If ok is false, the entry doesn't exist or is expired.
	Get(filter string, shift, maxDepth int) (res *Result, err error, ok bool)

	// Set stores a translation outcome in the cache.
	Set(filter string, shift, maxDepth int, res *Result, err error)
}

// CacheImpl is the default in-memory cache implementation with optional TTL.
// It uses a sync.RWMutex for goroutine safety.
//
// The cache grows unbounded within its TTL window.
type CacheImpl struct {
	mu    sync.RWMutex
	items map[cacheKey]cacheEntry
	ttl   time.Duration // 0 means no expiry
}

// CacheOption configures a Cache.
type CacheOption func(*CacheImpl)

// WithTTL sets the time-to-live for cache entries.
// A TTL of 0 (default) means entries never expire within the cache's lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CacheImpl) {
		c.ttl = ttl
	}
}

// NewCache creates a new translation cache.
func NewCache(opts ...CacheOption) *CacheImpl {
	c := &CacheImpl{
		items: make(map[cacheKey]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a cached translation. The returned Result is a copy and may
// be modified by the caller.
func (c *CacheImpl) Get(filter string, shift, maxDepth int) (*Result, error, bool) {
	key := cacheKey{Filter: filter, Shift: shift, MaxDepth: maxDepth}

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil, false
	}

	// Check expiry if TTL is set
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, nil, false
	}

	return entry.result.clone(), entry.err, true
}

// Set stores a translation outcome in the cache.
func (c *CacheImpl) Set(filter string, shift, maxDepth int, res *Result, err error) {
	entry := cacheEntry{
		result: res.clone(),
		err:    err,
	}

	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[cacheKey{Filter: filter, Shift: shift, MaxDepth: maxDepth}] = entry
	c.mu.Unlock()
}

// Size returns the number of entries in the cache.
func (c *CacheImpl) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all entries from the cache.
func (c *CacheImpl) Clear() {
	c.mu.Lock()
	c.items = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}

// Ensure CacheImpl implements Cache.
var _ Cache = (*CacheImpl)(nil)
