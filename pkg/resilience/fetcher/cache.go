package fetcher

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"weather-api/pkg/log"
)

// readCache decodes the entry under key. With fresh set, entries older than CacheTTL are
// ignored. Store errors and undecodable entries are treated as misses.
func readCache[T any](ctx context.Context, f *Fetcher, key string, fresh bool) (T, bool) {
	var zero T
	if f.store == nil {
		return zero, false
	}

	raw, found, err := f.store.Get(ctx, key)
	if err != nil {
		log.Warn("cache unavailable, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if !found {
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Payload) == 0 {
		log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	if fresh && f.clock.Since(env.StoredAt) >= f.cfg.CacheTTL {
		return zero, false
	}

	var value T
	if err := json.Unmarshal(env.Payload, &value); err != nil {
		log.Warn("discarding undecodable cache payload", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// writeCache stores value for StaleTTL. Failures are logged and swallowed.
func writeCache[T any](ctx context.Context, f *Fetcher, key string, value T) {
	if f.store == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.Warn("cache write skipped, value not serialisable", zap.String("key", key), zap.Error(err))
		return
	}
	raw, err := json.Marshal(envelope{StoredAt: f.clock.Now().UTC(), Payload: payload})
	if err != nil {
		log.Warn("cache write skipped", zap.String("key", key), zap.Error(err))
		return
	}

	if err := f.store.Set(ctx, key, raw, f.cfg.StaleTTL); err != nil {
		log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
