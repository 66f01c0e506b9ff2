package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/fare-offer-service/internal/metrics"
)

// RedisCache shares provider payloads between service instances.
// Redis failures degrade to cache misses.
type RedisCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds the connection settings for RedisCache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisCacheWithClient(client, cfg.TTL, cfg.Prefix), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client redis.UniversalClient, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "fare-offer:payload:"
	}
	return &RedisCache{client: client, ttl: ttl, keyPrefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.keyPrefix + k
}

// Get returns the cached payload.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Redis cache get failed")
			metrics.RecordCacheOperation("get", "error")
			return nil, false
		}
		metrics.RecordCacheOperation("get", "miss")
		return nil, false
	}
	metrics.RecordCacheOperation("get", "hit")
	return value, true
}

// Set stores value with the configured TTL.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis cache set failed")
		metrics.RecordCacheOperation("set", "error")
		return
	}
	metrics.RecordCacheOperation("set", "success")
}

// Invalidate removes key.
func (r *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis cache delete failed")
		return
	}
	metrics.RecordCacheOperation("invalidate", "success")
}

// Clear removes every key under the cache prefix.
func (r *RedisCache) Clear(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("Redis cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis cache clear failed")
			return
		}
	}
	metrics.RecordCacheOperation("clear", "success")
}

// Ping reports whether Redis is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Stop closes the client.
func (r *RedisCache) Stop() {
	if err := r.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close Redis client")
	}
}
