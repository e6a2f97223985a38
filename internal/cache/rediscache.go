package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed implementation using plain keys with a TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache. If url is empty or invalid,
// operations will error.
func NewRedisCache(url, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "inspector:report"
	}
	if url == "" {
		return &RedisCache{client: nil, prefix: prefix}
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return &RedisCache{client: nil, prefix: prefix}
	}
	return &RedisCache{client: redis.NewClient(opt), prefix: prefix}
}

func (r *RedisCache) ensure() error {
	if r.client == nil {
		return errors.New("redis cache not configured")
	}
	return nil
}

func (r *RedisCache) key(key string) string { return r.prefix + ":" + key }

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := r.ensure(); err != nil {
		return nil, false, err
	}
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (r *RedisCache) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := r.ensure(); err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}
