package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/raychel/internal/model"
)

// exerciseCache runs the behavior every backend must share
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := Key("weather", "current", "Paris")

	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "empty cache hit")

	require.NoError(t, c.Set(ctx, key, []byte("sunny"), time.Minute))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "sunny", string(got))

	require.NoError(t, c.Delete(ctx, key))
	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "hit after delete")
	assert.NoError(t, c.Delete(ctx, key), "deleting a missing key")

	require.NoError(t, c.Set(ctx, key, []byte("rain"), 0))
	require.NoError(t, c.Clear(ctx))
	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "hit after clear")
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache(time.Minute, time.Minute))
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestDiskCache(t *testing.T) {
	exerciseCache(t, NewDiskCache(t.TempDir(), time.Hour))
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestDiskCache_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, NewDiskCache(dir, time.Hour).Set(ctx, "k", []byte("v"), 0))

	got, ok := NewDiskCache(dir, time.Hour).Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
}

func TestLayeredCache(t *testing.T) {
	exerciseCache(t, NewLayeredCache(time.Minute, t.TempDir(), time.Hour))
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, NewDiskCache(dir, time.Hour).Set(ctx, "k", []byte("v"), 0))

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))

	mem := c.memory.(*MemoryCache)
	assert.Equal(t, 1, mem.Len())
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRedisCache(t *testing.T) {
	_, c := newMiniredis(t)
	require.NoError(t, c.Ping(context.Background()))
	exerciseCache(t, c)
}

func TestRedisCache_TTL(t *testing.T) {
	mr, c := newMiniredis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "raychel:v1:k", []byte("v"), 0))
	assert.Equal(t, time.Minute, mr.TTL("raychel:v1:k"))

	mr.FastForward(2 * time.Minute)
	_, ok := c.Get(ctx, "raychel:v1:k")
	assert.False(t, ok)
}

func TestRedisCache_ClearKeepsForeignKeys(t *testing.T) {
	mr, c := newMiniredis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "keep"))
	require.NoError(t, c.Set(ctx, Key("search", "q"), []byte("v"), 0))
	require.NoError(t, c.Clear(ctx))

	assert.True(t, mr.Exists("other:key"))
	assert.Len(t, mr.Keys(), 1)
}

func TestRedisCache_UnreachableIsMiss(t *testing.T) {
	mr, c := newMiniredis(t)
	mr.Close()

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	a := Key("weather", "current", "Paris")
	b := Key("weather", "forecast", "Paris")
	c := Key("weather", "current", "Paris")

	assert.True(t, strings.HasPrefix(a, "raychel:v1:weather:"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.NotEqual(t, Key("search", "ab", "c"), Key("search", "a", "bc"))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.CacheConfig
		want    any
		wantErr bool
	}{
		{"disabled", model.CacheConfig{Enabled: false, Backend: "redis"}, Nop{}, false},
		{"memory", model.CacheConfig{Enabled: true, Backend: "memory"}, &MemoryCache{}, false},
		{"disk", model.CacheConfig{Enabled: true, Backend: "disk", DiskDir: "x"}, &DiskCache{}, false},
		{"layered", model.CacheConfig{Enabled: true, Backend: "layered"}, &LayeredCache{}, false},
		{"redis", model.CacheConfig{Enabled: true, Backend: "redis", RedisAddr: "localhost:0"}, &RedisCache{}, false},
		{"unknown", model.CacheConfig{Enabled: true, Backend: "memcached"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, c)
		})
	}
}
