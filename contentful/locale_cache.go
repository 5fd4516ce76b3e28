package contentful

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v7"
	extErrors "github.com/pkg/errors"
)

// LocaleCache stores the list of locales configured in the content space.
// Entries expire after the implementation's TTL; Invalidate drops them immediately.
type LocaleCache interface {
	Get(ctx context.Context) ([]string, bool, error)
	Set(ctx context.Context, locales []string) error
	Invalidate(ctx context.Context) error
}

var _ LocaleCache = &MemoryLocaleCache{}
var _ LocaleCache = &RedisLocaleCache{}

// MemoryLocaleCache keeps the locales in process memory. It is safe for concurrent use.
type MemoryLocaleCache struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	locales   []string
	expiresAt time.Time
}

// NewMemoryLocaleCache returns an in-process cache. A nil clock uses time.Now.
func NewMemoryLocaleCache(ttl time.Duration, clock func() time.Time) *MemoryLocaleCache {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryLocaleCache{
		ttl: ttl,
		now: clock,
	}
}

func (c *MemoryLocaleCache) Get(ctx context.Context) ([]string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.locales == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return append([]string(nil), c.locales...), true, nil
}

func (c *MemoryLocaleCache) Set(ctx context.Context, locales []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locales = append([]string{}, locales...)
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

func (c *MemoryLocaleCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locales = nil
	c.expiresAt = time.Time{}
	return nil
}

// RedisLocaleCache shares the locales between processes through Redis
type RedisLocaleCache struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedisLocaleCache returns a cache storing the locales as JSON under key
func NewRedisLocaleCache(rdb redis.UniversalClient, key string, ttl time.Duration) *RedisLocaleCache {
	if key == "" {
		key = "contentful:locales"
	}
	return &RedisLocaleCache{
		rdb: rdb,
		key: key,
		ttl: ttl,
	}
}

func (c *RedisLocaleCache) Get(ctx context.Context) ([]string, bool, error) {
	raw, err := c.rdb.Get(c.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, extErrors.Wrap(err, "Cannot get locales from Redis")
	}
	var locales []string
	if err := json.Unmarshal(raw, &locales); err != nil {
		return nil, false, extErrors.Wrap(err, "Invalid locales in Redis")
	}
	return locales, true, nil
}

func (c *RedisLocaleCache) Set(ctx context.Context, locales []string) error {
	raw, err := json.Marshal(locales)
	if err != nil {
		return extErrors.Wrap(err, "Cannot encode locales")
	}
	if err := c.rdb.Set(c.key, raw, c.ttl).Err(); err != nil {
		return extErrors.Wrap(err, "Cannot set locales in Redis")
	}
	return nil
}

func (c *RedisLocaleCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(c.key).Err(); err != nil {
		return extErrors.Wrap(err, "Cannot delete locales from Redis")
	}
	return nil
}
