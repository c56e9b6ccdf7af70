package cache

import (
	"context"
	"strconv"

	"weather-api/internal/domain/model"
	cachestore "weather-api/pkg/cache"
	"weather-api/pkg/redis"
)

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

// RedisHealthGateway reports the health of the Redis-backed response cache
type RedisHealthGateway struct {
	checker *redis.HealthChecker
}

func NewRedisHealthGateway(client *redis.Client) *RedisHealthGateway {
	return &RedisHealthGateway{checker: redis.NewHealthChecker(client)}
}

func (gateway *RedisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.checker.HealthCheck(ctx)
	details := map[string]string{"type": "redis"}
	for key, value := range check.Details {
		details[key] = value
	}
	return model.ComponentHealthStatus{
		Status:  model.HealthStatus(check.Status),
		Details: details,
	}
}

// MemoryHealthGateway reports the in-process cache, which is always available
type MemoryHealthGateway struct {
	store *cachestore.MemoryStore
}

func NewMemoryHealthGateway(store *cachestore.MemoryStore) *MemoryHealthGateway {
	return &MemoryHealthGateway{store: store}
}

func (gateway *MemoryHealthGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"type":    "memory",
			"entries": strconv.Itoa(gateway.store.Len()),
		},
	}
}
