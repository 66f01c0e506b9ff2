package http

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
)

const readinessTimeout = 2 * time.Second

// HealthChecker is a dependency the service cannot work without.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

// HealthCheck calls f.
func (f HealthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// BreakerStats reports a circuit breaker snapshot.
type BreakerStats interface {
	GetStats() circuitbreaker.Stats
}

// StatsFunc adapts a function to BreakerStats.
type StatsFunc func() circuitbreaker.Stats

// GetStats calls f.
func (f StatsFunc) GetStats() circuitbreaker.Stats { return f() }

// ReadinessResponse is the /readyz body.
//
// @Description Readiness report
type ReadinessResponse struct {
	Status          string                          `json:"status" example:"ok"`
	Checks          map[string]string               `json:"checks"`
	CircuitBreakers map[string]circuitbreaker.Stats `json:"circuit_breakers,omitempty"`
} // @name ReadinessResponse

// HealthHandler serves the liveness and readiness probes.
//
// Readiness fails (503) only when a registered checker fails. Open circuit
// breakers are reported as "degraded" with a 200: payload normalization
// keeps working while the provider or archive is down.
type HealthHandler struct {
	checkers map[string]HealthChecker
	breakers map[string]BreakerStats
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers: make(map[string]HealthChecker),
		breakers: make(map[string]BreakerStats),
	}
}

// RegisterChecker adds a readiness dependency.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker adds a breaker to the readiness report.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb BreakerStats) {
	h.breakers[name] = cb
}

// Register adds the probe routes.
func (h *HealthHandler) Register(router gin.IRoutes) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles GET /healthz.
//
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz.
//
// @Summary     Readiness probe
// @Description Pings MongoDB and Redis when configured and reports circuit breaker states.
// @Tags        Health
// @Produce     json
// @Success     200 {object} ReadinessResponse
// @Failure     503 {object} ReadinessResponse
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := ReadinessResponse{
		Status: "ok",
		Checks: map[string]string{"service": "ok"},
	}
	status := http.StatusOK

	for _, name := range slices.Sorted(maps.Keys(h.checkers)) {
		if err := h.checkers[name].HealthCheck(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	if len(h.breakers) > 0 {
		resp.CircuitBreakers = make(map[string]circuitbreaker.Stats, len(h.breakers))
		for name, cb := range h.breakers {
			stats := cb.GetStats()
			resp.CircuitBreakers[name] = stats
			if !stats.IsHealthy && status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(status, resp)
}
