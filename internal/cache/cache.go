// Package cache provides payload caches for provider responses.
package cache

import (
	"context"
	"time"
)

// Cache stores raw provider payloads by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context, key string)
	Clear(ctx context.Context)
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// WithMetrics extends Cache with metrics reporting.
type WithMetrics interface {
	Cache
	Metrics() Metrics
}

// Config holds the settings shared by every cache backend.
type Config struct {
	Capacity  int
	TTL       time.Duration
	NumShards int
	KeyPrefix string
}
