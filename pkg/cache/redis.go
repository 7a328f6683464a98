package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache stores entries in a redis instance, letting several
// installer processes share one index-response cache. Expiration is
// delegated to redis key TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a redis-backed cache from a redis URL
// (e.g. "redis://localhost:6379/0").
func NewRedisCache(url string) (Cache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opt)}, nil
}

// NewRedisCacheClient wraps an existing redis client. The caller retains
// ownership of the client; Close on the returned cache closes it.
func NewRedisCacheClient(client *redis.Client) Cache {
	return &RedisCache{client: client}
}

// Get retrieves a value from redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, Hash([]byte(key))).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in redis with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, Hash([]byte(key)), data, ttl).Err()
}

// Delete removes a value from redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, Hash([]byte(key))).Err()
}

// Close closes the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
