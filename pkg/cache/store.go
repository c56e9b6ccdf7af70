// Package cache defines the key/value contract used for response caching and an
// in-process implementation of it. The Redis implementation lives in pkg/redis.
package cache

import (
	"context"
	"time"
)

// Store is a key/value store with per-write TTL.
// A missing or expired key reports found=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key; a missing key is not an error
	Delete(ctx context.Context, key string) error
}
