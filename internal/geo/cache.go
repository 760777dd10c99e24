package geo

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lookup struct {
	location string
	found    bool
}

// Cached memoizes an underlying Locator, including misses.
type Cached struct {
	next   Locator
	cache  *lru.Cache[string, lookup]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps next with an LRU cache of size entries. A non-positive size
// returns next unchanged.
func NewCached(next Locator, size int) (Locator, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, lookup](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Locate(ip string) (string, bool) {
	if v, ok := c.cache.Get(ip); ok {
		c.hits.Add(1)
		return v.location, v.found
	}
	c.misses.Add(1)
	loc, found := c.next.Locate(ip)
	c.cache.Add(ip, lookup{location: loc, found: found})
	return loc, found
}

// Stats returns cache hits and misses so far.
func (c *Cached) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
