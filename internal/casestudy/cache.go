package casestudy

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheNamespace = "casestudy"

// Cache stores rendered fragments in Redis. Keys carry the content version so
// a new catalog never serves fragments of the previous one.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	version string
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, version string) *Cache {
	return &Cache{client: client, ttl: ttl, version: version}
}

// Version returns the content version baked into every key.
func (c *Cache) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

// BuildKey composes the cache key with the current version.
func (c *Cache) BuildKey(parts ...string) string {
	joined := strings.Join(append([]string{cacheNamespace}, parts...), ":")
	if c == nil || c.version == "" {
		return joined
	}
	return joined + ":" + c.version
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// PurgeStale deletes fragments written under any other content version and
// reports how many keys were removed.
func (c *Cache) PurgeStale(ctx context.Context) (int, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	suffix := ":" + c.version
	removed := 0
	iter := c.client.Scan(ctx, 0, cacheNamespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if c.version != "" && strings.HasSuffix(key, suffix) {
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, iter.Err()
}

func roundTrip(value, dest interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
