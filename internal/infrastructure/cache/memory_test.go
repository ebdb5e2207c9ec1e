package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMemoryCache(maxEntries int) (*MemoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(time.Minute, maxEntries)
	c.now = clock.now
	return c, clock
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(0)

	value := []byte("v1")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'x'

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got, "Set copies its input")

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(0)
	require.NoError(t, c.Set(ctx, "k", []byte("v1"), 0))

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	got[0] = 'x'

	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, []byte("v1"), again)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestMemoryCache(0)

	require.NoError(t, c.Set(ctx, "short", []byte("a"), 10*time.Second))
	require.NoError(t, c.Set(ctx, "default", []byte("b"), 0))

	clock.advance(10 * time.Second)
	_, ok, _ := c.Get(ctx, "short")
	assert.False(t, ok, "expires exactly at ttl")
	_, ok, _ = c.Get(ctx, "default")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len(), "expired entry removed on read")

	clock.advance(time.Minute)
	_, ok, _ = c.Get(ctx, "default")
	assert.False(t, ok)
}

func TestMemoryCache_SweepsWhenFull(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestMemoryCache(3)

	require.NoError(t, c.Set(ctx, "stale-1", []byte("x"), time.Second))
	require.NoError(t, c.Set(ctx, "stale-2", []byte("x"), time.Second))
	require.NoError(t, c.Set(ctx, "fresh", []byte("x"), time.Hour))
	clock.advance(2 * time.Second)

	require.NoError(t, c.Set(ctx, "new", []byte("x"), time.Hour))
	assert.Equal(t, 2, c.Len(), "expired entries swept once over the bound")
}

func TestMemoryCache_EvictsSoonestToExpire(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(2)

	require.NoError(t, c.Set(ctx, "a", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("x"), time.Hour))
	require.NoError(t, c.Set(ctx, "c", []byte("x"), 2*time.Hour))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemoryCache(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("x"), 0))
	}
	require.NoError(t, c.Clear(ctx))
	assert.Zero(t, c.Len())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, 50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("g%d-%d", g, i%20)
				_ = c.Set(ctx, key, []byte("x"), 0)
				_, _, _ = c.Get(ctx, key)
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}
