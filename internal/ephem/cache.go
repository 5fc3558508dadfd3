package ephem

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/OpenSciViz/zodipy/internal/coords"
	"github.com/OpenSciViz/zodipy/internal/metrics"
)

// CachedProvider memoizes lookups of an underlying Provider. A batch over a
// timestream asks for the same (observer, time) pair once per direction, so
// the external ephemeris is consulted once instead of npix times.
// Safe for concurrent use.
type CachedProvider struct {
	inner Provider

	mu      sync.RWMutex
	entries map[cacheKey]coords.Vec3

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheKey struct {
	observer string // "" keys Earth lookups
	unixNano int64
}

// NewCachedProvider wraps a provider with a memoizing cache.
func NewCachedProvider(inner Provider) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		entries: make(map[cacheKey]coords.Vec3),
	}
}

// EarthPosition implements Provider.
func (c *CachedProvider) EarthPosition(t time.Time) (coords.Vec3, error) {
	return c.lookup(cacheKey{unixNano: t.UnixNano()}, func() (coords.Vec3, error) {
		return c.inner.EarthPosition(t)
	})
}

// ObserverPosition implements Provider.
func (c *CachedProvider) ObserverPosition(name string, t time.Time) (coords.Vec3, error) {
	return c.lookup(cacheKey{observer: name, unixNano: t.UnixNano()}, func() (coords.Vec3, error) {
		return c.inner.ObserverPosition(name, t)
	})
}

func (c *CachedProvider) lookup(key cacheKey, resolve func() (coords.Vec3, error)) (coords.Vec3, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		metrics.IncEphemerisCacheHits()
		return v, nil
	}

	c.misses.Add(1)
	metrics.IncEphemerisCacheMisses()

	v, err := resolve()
	if err != nil {
		// Errors are not cached: a missing data file may appear later.
		return coords.Vec3{}, err
	}

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v, nil
}

// Stats returns cache hit/miss counts and current size.
func (c *CachedProvider) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	size = len(c.entries)
	c.mu.RUnlock()
	return c.hits.Load(), c.misses.Load(), size
}

// Purge empties the cache.
func (c *CachedProvider) Purge() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]coords.Vec3)
	c.mu.Unlock()
}
