package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps vectors in process memory with a TTL.
type MemoryCache struct {
	vectors *gocache.Cache
}

// NewMemoryCache creates a memory cache whose entries expire after ttl.
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		vectors: gocache.New(ttl, cleanupInterval),
	}
}

// Get retrieves a vector from the cache.
func (c *MemoryCache) Get(key string) ([]float32, bool) {
	if val, found := c.vectors.Get(key); found {
		return val.([]float32), true
	}
	return nil, false
}

// Set stores a vector under the cache's TTL.
func (c *MemoryCache) Set(key string, vec []float32) {
	c.vectors.SetDefault(key, vec)
}
