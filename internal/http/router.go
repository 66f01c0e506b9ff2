package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/fare-offer-service/internal/cache"
	"github.com/guttosm/fare-offer-service/internal/metrics"
	"github.com/guttosm/fare-offer-service/internal/middleware"
)

// RouterConfig holds router options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// APIClients maps client names to API keys. Ignored when JWT is set;
	// with neither set the API is open.
	APIClients map[string]string
	JWT        *middleware.JWTConfig

	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string

	SearchTimeout    time.Duration
	IdempotencyStore cache.Cache
	LogSink          *middleware.AsyncLogger
}

// DefaultRouterConfig returns the defaults used by tests and local runs.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:     100,
		RateWindow:    time.Minute,
		SearchTimeout: middleware.DefaultTimeout,
	}
}

// Router is the configured engine plus the resources it owns.
type Router struct {
	*gin.Engine
	limiter *middleware.RateLimiter
}

// Close stops background goroutines owned by the router.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}

// NewRouter builds the engine with the middleware chain and every route group.
func NewRouter(health *HealthHandler, cfg RouterConfig, groups ...RouteGroup) *Router {
	engine := gin.New()
	engine.Use(
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LogSink),
		middleware.ErrorHandler(),
	)

	health.Register(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	registerSwagger(engine, &cfg)

	api := engine.Group("/api")
	if auth := authMiddleware(&cfg); auth != nil {
		api.Use(auth)
	}

	r := &Router{Engine: engine}
	if cfg.RateLimit > 0 {
		r.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		api.Use(r.limiter.RateLimit())
	}

	for _, g := range groups {
		g.RegisterRoutes(api, &cfg)
	}
	return r
}

// authMiddleware prefers bearer tokens when a JWT secret is configured. It
// returns nil when neither tokens nor API keys are configured.
func authMiddleware(cfg *RouterConfig) gin.HandlerFunc {
	switch {
	case cfg.JWT != nil && len(cfg.JWT.Secret) > 0:
		return middleware.JWTAuth(*cfg.JWT)
	case len(cfg.APIClients) > 0:
		return middleware.APIKeyAuth(cfg.APIClients)
	default:
		return nil
	}
}

func registerSwagger(engine *gin.Engine, cfg *RouterConfig) {
	handler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		engine.Group("/swagger", gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass})).
			GET("/*any", handler)
		return
	}
	engine.GET("/swagger/*any", handler)
}
