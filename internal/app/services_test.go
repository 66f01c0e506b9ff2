//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/cache"
	"github.com/guttosm/fare-offer-service/internal/events"
)

func TestInitializeServices(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*config.Config)
		wantProvider bool
		wantKafka    bool
	}{
		{
			name:   "defaults",
			mutate: func(*config.Config) {},
		},
		{
			name: "provider configured",
			mutate: func(c *config.Config) {
				c.Provider.BaseURL = "http://pricing.local"
			},
			wantProvider: true,
		},
		{
			name: "kafka configured",
			mutate: func(c *config.Config) {
				c.Kafka.Brokers = []string{"127.0.0.1:9092"}
			},
			wantKafka: true,
		},
		{
			name: "redis unreachable falls back to memory",
			mutate: func(c *config.Config) {
				c.Redis.Addr = "127.0.0.1:1"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			sc := InitializeServices(context.Background(), cfg, nil)
			defer sc.Close()

			require.NotNil(t, sc.Offers)
			assert.Equal(t, tt.wantProvider, sc.Provider != nil)
			assert.Nil(t, sc.Redis)
			assert.IsType(t, &cache.ShardedCache{}, sc.PayloadCache)
			assert.IsType(t, &cache.ShardedCache{}, sc.IdempotencyStore)

			_, isKafka := sc.Publisher.(*events.KafkaPublisher)
			assert.Equal(t, tt.wantKafka, isKafka)
		})
	}
}

func TestInitializeServices_IdempotencyStoreOutlivesPayloadCache(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.TTL = time.Millisecond
	cfg.Cache.IdempotencyTTL = time.Hour

	sc := InitializeServices(context.Background(), cfg, nil)
	defer sc.Close()

	ctx := context.Background()
	sc.PayloadCache.Set(ctx, "k", []byte("payload"))
	sc.IdempotencyStore.Set(ctx, "k", []byte("response"))
	time.Sleep(5 * time.Millisecond)

	_, payloadHit := sc.PayloadCache.Get(ctx, "k")
	stored, idemHit := sc.IdempotencyStore.Get(ctx, "k")
	assert.False(t, payloadHit)
	assert.True(t, idemHit)
	assert.Equal(t, []byte("response"), stored)
}

func TestServiceComponents_CloseNil(t *testing.T) {
	var sc *ServiceComponents
	assert.NotPanics(t, sc.Close)
}
