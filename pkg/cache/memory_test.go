package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "weather:v3:paris", []byte("payload"), time.Minute))

	got, found, err := store.Get(ctx, "weather:v3:paris")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("payload"), got)

	clock.Advance(time.Minute)

	got, found, err = store.Get(ctx, "weather:v3:paris")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "weather:v2:oslo", []byte("payload"), 0))
	require.NoError(t, store.Delete(ctx, "weather:v2:oslo"))
	require.NoError(t, store.Delete(ctx, "weather:v2:missing"))

	_, found, err := store.Get(ctx, "weather:v2:oslo")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()
	value := []byte("abc")

	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_Sweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, store.Set(ctx, "long", []byte("2"), time.Hour))
	require.NoError(t, store.Set(ctx, "forever", []byte("3"), 0))

	clock.Advance(time.Minute)

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "shared", []byte("v"), time.Minute)
			_, _, _ = store.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	_, found, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found)
}
