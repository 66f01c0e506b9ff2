// Package app wires the fare offer service together.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/http"
	"github.com/guttosm/fare-offer-service/internal/middleware"
)

// Application is the wired HTTP router plus the resources it owns.
type Application struct {
	Router *http.Router

	db       *DatabaseComponents
	services *ServiceComponents
	logSink  *middleware.AsyncLogger
}

// InitializeApp creates and wires all application dependencies. Optional
// backends (MongoDB, Redis, Kafka, the pricing provider) that are not
// configured or not reachable are left out and the service starts without
// them.
func InitializeApp(ctx context.Context, cfg config.Config) *Application {
	InitializeLogger(cfg.Log)

	db := InitializeDatabase(ctx, cfg.Database)
	services := InitializeServices(ctx, cfg, db)
	rc := InitializeRouter(services, db, cfg)

	log.Info().
		Bool("mongodb", db != nil).
		Bool("provider", services.Provider != nil).
		Bool("redis", services.Redis != nil).
		Bool("kafka", len(cfg.Kafka.Brokers) > 0).
		Msg("Application initialized")

	return &Application{
		Router:   http.NewRouter(rc.HealthHandler, rc.Config, rc.Groups...),
		db:       db,
		services: services,
		logSink:  rc.Config.LogSink,
	}
}

// Close releases everything the application opened. The log sink is
// drained before MongoDB is disconnected.
func (a *Application) Close(ctx context.Context) {
	a.Router.Close()
	a.logSink.Stop()
	a.services.Close()
	a.db.Close(ctx)
}
