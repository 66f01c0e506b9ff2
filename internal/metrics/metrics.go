// Package metrics provides Prometheus metrics collection for the fare offer service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// OfferNormalizationsTotal counts normalization runs by outcome.
	OfferNormalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "offer_normalizations_total",
			Help: "Total number of provider payload normalizations",
		},
		[]string{"status"},
	)

	// OfferNormalizationDuration tracks how long a payload takes to normalize.
	OfferNormalizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "offer_normalization_duration_seconds",
			Help:    "Offer normalization duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	// OffersProducedTotal counts offers returned to callers.
	OffersProducedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_produced_total",
			Help: "Total number of offers produced",
		},
	)

	// SolutionsSkippedTotal counts pricing solutions dropped during resolution.
	SolutionsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solutions_skipped_total",
			Help: "Total number of pricing solutions skipped",
		},
		[]string{"reason"},
	)

	// ProviderRequestsTotal counts pricing provider fetches by result.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of pricing provider requests",
		},
		[]string{"result"},
	)

	// ProviderRequestDuration tracks pricing provider latency.
	ProviderRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Pricing provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// EventsPublishedTotal counts domain events by type and result.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of domain events published",
		},
		[]string{"type", "result"},
	)

	// CircuitBreakerState reports 0 closed, 1 open, 2 half-open per breaker.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// LogSinkEntriesTotal counts request log entries handed to the MongoDB sink.
	LogSinkEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_sink_entries_total",
			Help: "Request log entries by outcome (written, dropped, failed)",
		},
		[]string{"result"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordNormalization records one normalization run.
func RecordNormalization(duration time.Duration, status string, offers int) {
	OfferNormalizationDuration.Observe(duration.Seconds())
	OfferNormalizationsTotal.WithLabelValues(status).Inc()
	OffersProducedTotal.Add(float64(offers))
}

// RecordSkippedSolution records a solution dropped for reason.
func RecordSkippedSolution(reason string) {
	SolutionsSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordProviderRequest records one pricing provider fetch.
func RecordProviderRequest(duration time.Duration, result string) {
	ProviderRequestDuration.Observe(duration.Seconds())
	ProviderRequestsTotal.WithLabelValues(result).Inc()
}

// RecordEvent records one event publication.
func RecordEvent(eventType, result string) {
	EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}

// SetCircuitBreakerState publishes the state of the named breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordLogSinkEntries records n log entries with the given outcome.
func RecordLogSinkEntries(result string, n int) {
	LogSinkEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
