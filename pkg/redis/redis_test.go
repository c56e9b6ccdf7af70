package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(NewRedisConfig().WithHost(mr.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient_RejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(NewRedisConfig().WithPort(0))
	assert.Error(t, err)

	_, err = NewClient(NewRedisConfig().WithHost(""))
	assert.Error(t, err)
}

func TestCache_SetGetWithPrefix(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, NewCacheOptions().WithCacheName("weather"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "weather:v3:paris", []byte(`{"temp":12}`), time.Minute))

	got, found, err := cache.Get(ctx, "weather:v3:paris")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"temp":12}`, string(got))

	assert.True(t, mr.Exists("weather::weather:v3:paris"))
	assert.Equal(t, time.Minute, mr.TTL("weather::weather:v3:paris"))
}

func TestCache_DeleteRemovesPrefixedKey(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, NewCacheOptions().WithCacheName("weather"))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "weather:v2:oslo", []byte(`{}`), time.Minute))
	require.NoError(t, cache.Delete(ctx, "weather:v2:oslo"))

	assert.False(t, mr.Exists("weather::weather:v2:oslo"))
	require.NoError(t, cache.Delete(ctx, "weather:v2:oslo"))
}

func TestCache_GetMissingKey(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client, nil)

	got, found, err := cache.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestCache_ExpiredKeyIsMissing(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, nil)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_GetFailsWhenServerDown(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client, nil)
	mr.Close()

	_, found, err := cache.Get(context.Background(), "k")

	assert.Error(t, err)
	assert.False(t, found)
}

func TestLock_ExclusiveUntilUnlocked(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	opts := NewLockOptions().WithTTL(time.Minute).WithLockNamespace("schedules")

	first := NewLock(client, "refresh", opts)
	second := NewLock(client, "refresh", opts)

	require.NoError(t, first.Lock(ctx))
	assert.ErrorIs(t, second.Lock(ctx), ErrLockNotAcquired)
	assert.ErrorIs(t, second.Unlock(ctx), ErrLockNotHeld)

	require.NoError(t, first.Unlock(ctx))
	require.NoError(t, second.Lock(ctx))
	assert.Equal(t, "schedules::refresh", second.Key())
}

func TestLock_RefreshExtendsTTL(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()
	lock := NewLock(client, "refresh", NewLockOptions().WithTTL(10*time.Second))

	require.NoError(t, lock.Lock(ctx))
	mr.FastForward(8 * time.Second)
	require.NoError(t, lock.Refresh(ctx))

	assert.Equal(t, 10*time.Second, mr.TTL("refresh"))
}

func TestLockWithFunc_ReleasesAfterRun(t *testing.T) {
	client, mr := newTestClient(t)
	ran := false

	err := LockWithFunc(context.Background(), client, "job", nil, func() error {
		ran = true
		assert.True(t, mr.Exists("job"))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("job"))
}

func TestHealthChecker(t *testing.T) {
	client, mr := newTestClient(t)
	checker := NewHealthChecker(client)

	up := checker.HealthCheck(context.Background())
	assert.Equal(t, StatusUp, up.Status)
	assert.Equal(t, client.GetConfig().Addr(), up.Details["address"])

	mr.Close()
	down := checker.HealthCheck(context.Background())
	assert.Equal(t, StatusDown, down.Status)
	assert.NotEmpty(t, down.Details["error"])
}
