package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/cache"
	"github.com/guttosm/fare-offer-service/internal/events"
	"github.com/guttosm/fare-offer-service/internal/provider"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// ServiceComponents holds the application services and their backends.
type ServiceComponents struct {
	Offers service.OfferService
	// Provider is nil when no provider base URL is configured.
	Provider *provider.Client
	// Redis is nil when the caches are in memory.
	Redis            *cache.RedisCache
	PayloadCache     cache.Cache
	IdempotencyStore cache.Cache
	Publisher        events.Publisher
}

// InitializeServices builds the offer service with its provider client,
// caches and event publisher. db may be nil.
func InitializeServices(ctx context.Context, cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	sc := &ServiceComponents{}
	sc.PayloadCache, sc.IdempotencyStore = initializeCaches(ctx, cfg, sc)
	sc.Publisher = initializePublisher(cfg.Kafka)

	opts := []service.OfferOption{service.WithPublisher(sc.Publisher)}

	if cfg.ProviderEnabled() {
		sc.Provider = provider.NewClient(provider.Config{
			BaseURL:        cfg.Provider.BaseURL,
			SearchPath:     cfg.Provider.SearchPath,
			APIKey:         cfg.Provider.APIKey,
			Timeout:        cfg.Provider.Timeout,
			MaxRetries:     cfg.Provider.MaxRetries,
			RetryBaseDelay: cfg.Provider.RetryBaseDelay,
		}, provider.WithCache(sc.PayloadCache))
		opts = append(opts, service.WithFetcher(sc.Provider))
	}

	if db != nil {
		opts = append(opts, service.WithArchive(db.Payloads))
	}

	sc.Offers = service.NewOfferService(opts...)
	return sc
}

// initializeCaches prefers Redis so cached payloads and idempotent
// responses are shared by every replica. It falls back to in-memory caches
// when Redis is not configured or not reachable.
func initializeCaches(ctx context.Context, cfg config.Config, sc *ServiceComponents) (payloads, idempotency cache.Cache) {
	if cfg.Redis.Addr != "" {
		redisCfg := cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		redisCfg.TTL, redisCfg.Prefix = cfg.Cache.TTL, cfg.Redis.Prefix+"payload:"
		payloadCache, err := cache.NewRedisCache(ctx, redisCfg)
		if err == nil {
			redisCfg.TTL, redisCfg.Prefix = cfg.Cache.IdempotencyTTL, cfg.Redis.Prefix+"idempotency:"
			idemCache, idemErr := cache.NewRedisCache(ctx, redisCfg)
			if idemErr == nil {
				log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
				sc.Redis = payloadCache
				return payloadCache, idemCache
			}
			payloadCache.Stop()
			err = idemErr
		}
		log.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis - using in-memory caches")
	}

	return cache.NewShardedCache(cfg.Cache.Size, cfg.Cache.TTL, cfg.Cache.Shards),
		cache.NewShardedCache(cfg.Cache.Size, cfg.Cache.IdempotencyTTL, cfg.Cache.Shards)
}

func initializePublisher(cfg config.KafkaConfig) events.Publisher {
	if len(cfg.Brokers) == 0 {
		return events.NoopPublisher{}
	}
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("Publishing events to Kafka")
	return events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		BatchTimeout: cfg.BatchTimeout,
	})
}

// Close stops the caches and flushes the event publisher. It is safe on a
// nil receiver.
func (sc *ServiceComponents) Close() {
	if sc == nil {
		return
	}
	if sc.Publisher != nil {
		if err := sc.Publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
	}
	if sc.PayloadCache != nil {
		sc.PayloadCache.Stop()
	}
	if sc.IdempotencyStore != nil {
		sc.IdempotencyStore.Stop()
	}
}
