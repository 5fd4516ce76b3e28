package contentful

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v7"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisLocaleCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisLocaleCache(rdb, "", time.Minute), mr
}

func TestRedisLocaleCache(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, []string{"en", "de"}))
	require.Equal(t, time.Minute, mr.TTL("contentful:locales"))

	locales, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"en", "de"}, locales)

	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisLocaleCache_Expires(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []string{"en"}))
	mr.FastForward(time.Minute * 2)

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisLocaleCache_CorruptValue(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	require.NoError(t, mr.Set("contentful:locales", "not json"))

	_, ok, err := cache.Get(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}
