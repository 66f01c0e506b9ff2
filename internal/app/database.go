package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/repository"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// DatabaseComponents holds the MongoDB backed components.
type DatabaseComponents struct {
	DB                     *repository.MongoDB
	Payloads               repository.PayloadsRepositoryInterface
	LoggingService         service.LoggingService
	PayloadsCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker     *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and creates the payload archive
// and log repositories. It returns nil when the database is disabled or
// unreachable.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if err := db.SetLogsTTL(ctx, cfg.LogsTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index")
	}

	payloadsCB := newBreaker(cfg, "mongodb-payloads")
	logsCB := newBreaker(cfg, "mongodb-logs")

	payloads := repository.NewPayloadsRepositoryWithCircuitBreaker(
		repository.NewPayloadsRepository(db, cfg.PayloadRetention), payloadsCB)
	logs := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:                     db,
		Payloads:               payloads,
		LoggingService:         service.NewLoggingService(logs),
		PayloadsCircuitBreaker: payloadsCB,
		LogsCircuitBreaker:     logsCB,
	}
}

// Close disconnects from MongoDB. It is safe on a nil receiver.
func (d *DatabaseComponents) Close(ctx context.Context) {
	if d == nil || d.DB == nil {
		return
	}
	if err := d.DB.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
	}
}

func newBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	})
}
