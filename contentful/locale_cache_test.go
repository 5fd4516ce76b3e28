package contentful

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLocaleCache_Expires(t *testing.T) {
	now := time.Date(2020, 11, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryLocaleCache(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, []string{"en", "de"}))
	locales, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"en", "de"}, locales)

	now = now.Add(time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryLocaleCache_Invalidate(t *testing.T) {
	cache := NewMemoryLocaleCache(time.Hour, nil)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, []string{"en"}))
	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryLocaleCache_ReturnsCopies(t *testing.T) {
	cache := NewMemoryLocaleCache(time.Hour, nil)
	ctx := context.Background()

	input := []string{"en", "de"}
	require.NoError(t, cache.Set(ctx, input))
	input[0] = "fr"

	locales, _, _ := cache.Get(ctx)
	locales[1] = "es"

	again, _, _ := cache.Get(ctx)
	require.Equal(t, []string{"en", "de"}, again)
}
