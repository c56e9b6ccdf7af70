package redis

import (
	"context"
	"time"

	"weather-api/pkg/cache"
)

var _ cache.Store = (*Cache)(nil)

// CacheOptions represents options for cache operations
type CacheOptions struct {
	// TTL is used when Set receives a non-positive ttl
	TTL time.Duration
	// CacheName prefixes every key as CacheName::key
	CacheName string
}

// NewCacheOptions creates a new cache options with default values
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{TTL: time.Hour}
}

// WithTTL sets the default TTL for cache operations
func (co *CacheOptions) WithTTL(ttl time.Duration) *CacheOptions {
	co.TTL = ttl
	return co
}

// WithCacheName sets the key prefix
func (co *CacheOptions) WithCacheName(cacheName string) *CacheOptions {
	co.CacheName = cacheName
	return co
}

// Cache stores raw byte payloads in Redis.
type Cache struct {
	client *Client
	opts   *CacheOptions
}

// NewCache creates a new cache instance
func NewCache(client *Client, opts *CacheOptions) *Cache {
	if opts == nil {
		opts = NewCacheOptions()
	}
	return &Cache{client: client, opts: opts}
}

// buildCacheKey constructs the full cache key using CacheName::cacheKey format
func (c *Cache) buildCacheKey(key string) string {
	if c.opts.CacheName != "" {
		return c.opts.CacheName + "::" + key
	}
	return key
}

// Get returns the payload stored under key and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.client.GetBytes(ctx, c.buildCacheKey(key))
}

// Set stores value under key for ttl.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.opts.TTL
	}
	return c.client.Set(ctx, c.buildCacheKey(key), value, ttl)
}

// Delete removes key from the cache
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, c.buildCacheKey(key))
}
