package license

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedOracle wraps an Oracle with a short TTL cache and collapses
// concurrent checks for the same key into one registry fetch. Unreachable
// verdicts are never cached: the next call should retry the network.
type CachedOracle struct {
	inner Oracle
	ttl   time.Duration

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	status    Status
	expiresAt time.Time
}

func NewCachedOracle(inner Oracle, ttl time.Duration) *CachedOracle {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedOracle{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedOracle) Check(ctx context.Context, key string) Status {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.status
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		status := c.inner.Check(ctx, key)
		if !status.Retryable() {
			c.mu.Lock()
			c.entries[key] = cacheEntry{status: status, expiresAt: time.Now().Add(c.ttl)}
			c.mu.Unlock()
		}
		return status, nil
	})
	return v.(Status)
}

// Invalidate drops a cached verdict, used after key activation changes.
func (c *CachedOracle) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
