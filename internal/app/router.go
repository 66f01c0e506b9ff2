package app

import (
	"github.com/guttosm/fare-offer-service/config"
	"github.com/guttosm/fare-offer-service/internal/http"
	"github.com/guttosm/fare-offer-service/internal/middleware"
)

// RouterComponents holds what http.NewRouter needs.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
	Groups        []http.RouteGroup
}

// InitializeRouter creates the handlers, registers health dependencies and
// builds the router configuration. db may be nil.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	var sink *middleware.AsyncLogger
	if db != nil && cfg.Database.RequestLogs {
		sink = middleware.NewAsyncLogger(db.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	health := http.NewHealthHandler()
	groups := []http.RouteGroup{
		http.NewOfferRoutes(http.NewHandler(services.Offers,
			http.WithAuditLog(sink),
			http.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		)),
		http.NewPayloadRoutes(http.NewPayloadHandler(services.Offers)),
	}

	if services.Provider != nil {
		health.RegisterCircuitBreaker("pricing_provider", http.StatsFunc(services.Provider.Stats))
	}
	if services.Redis != nil {
		health.RegisterChecker("redis", http.HealthCheckFunc(services.Redis.Ping))
	}
	if db != nil {
		health.RegisterChecker("mongodb", db.DB)
		health.RegisterCircuitBreaker("mongodb_payloads", db.PayloadsCircuitBreaker)
		health.RegisterCircuitBreaker("mongodb_logs", db.LogsCircuitBreaker)
		groups = append(groups, http.NewLogsRoutes(http.NewLogsHandler(db.LoggingService)))
	}

	return &RouterComponents{
		HealthHandler: health,
		Config:        routerConfig(cfg, services, sink),
		Groups:        groups,
	}
}

func routerConfig(cfg config.Config, services *ServiceComponents, sink *middleware.AsyncLogger) http.RouterConfig {
	rc := http.RouterConfig{
		RateLimit:        cfg.Server.RateLimit,
		RateWindow:       cfg.Server.RateWindow,
		CORSOrigins:      cfg.Server.CORSOrigins,
		SwaggerUser:      cfg.Server.SwaggerUser,
		SwaggerPass:      cfg.Server.SwaggerPass,
		SearchTimeout:    cfg.Server.SearchTimeout,
		IdempotencyStore: services.IdempotencyStore,
		LogSink:          sink,
	}

	if !cfg.Auth.Enabled {
		return rc
	}
	if cfg.Auth.JWTSecret != "" {
		rc.JWT = &middleware.JWTConfig{
			Secret:   []byte(cfg.Auth.JWTSecret),
			Issuer:   cfg.Auth.JWTIssuer,
			Audience: cfg.Auth.JWTAudience,
			Leeway:   cfg.Auth.JWTLeeway,
		}
		return rc
	}
	rc.APIClients = cfg.Auth.APIKeys
	return rc
}
