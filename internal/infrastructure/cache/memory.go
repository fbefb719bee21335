package cache

import (
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/logger"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var _ cache.CacheService = (*MemoryCache)(nil)

// MemoryCache is a process-local cache.CacheService backed by go-cache.
// Entries never outlive defaultTTL unless Set is given a longer duration.
type MemoryCache struct {
	items      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache sweeps expired entries every sweepInterval.
func NewMemoryCache(defaultTTL, sweepInterval time.Duration) *MemoryCache {
	items := gocache.New(defaultTTL, sweepInterval)
	items.OnEvicted(func(key string, _ interface{}) {
		logger.Get().Debug().Str("key", key).Msg("Cache: entry evicted")
	})
	return &MemoryCache{items: items, defaultTTL: defaultTTL}
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	return c.items.Get(key)
}

// Set stores value for ttl. A non-positive ttl means the cache default, so
// callers cannot pin an entry forever by accident.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.items.Set(key, value, ttl)
}

func (c *MemoryCache) Delete(key string) {
	c.items.Delete(key)
}

func (c *MemoryCache) Flush() {
	c.items.Flush()
}

// Len counts entries, including expired ones not yet swept.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
