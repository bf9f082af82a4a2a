package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"SEO_Analysis/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "seo:provider:"
	redisPingTimeout = 5 * time.Second
)

// RedisCache stores provider payloads as plain string values under a key namespace.
// Expiry is delegated to Redis key TTLs.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache connects to the Redis instance at redisURL
func NewRedisCache(redisURL string) (Service, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisCache(client, redisKeyPrefix), nil
}

func newRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisCache) key(fingerprint string) string {
	return r.prefix + fingerprint
}

func (r *RedisCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, models.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return json.RawMessage(data), nil
}

// Set writes payload and its expiry in one SET, so readers never observe a value without a TTL
func (r *RedisCache) Set(ctx context.Context, key string, payload json.RawMessage, ttl time.Duration) error {
	if err := validateEntry(key, payload, ttl); err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(key), []byte(payload), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (r *RedisCache) Close() error {
	return r.client.Close()
}
