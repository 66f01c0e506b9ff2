// Package provider fetches raw pricing payloads from the upstream flight
// pricing provider. Caching, retries and circuit breaking live here so the
// normalization pipeline stays free of I/O.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/fare-offer-service/internal/cache"
	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/metrics"
)

var (
	// ErrUpstream is returned when the provider answers with an error.
	ErrUpstream = errors.New("pricing provider request failed")
	// ErrNotConfigured is returned when no provider base URL is set.
	ErrNotConfigured = errors.New("pricing provider is not configured")
)

const maxPayloadBytes = 16 << 20

// errPayloadTooLarge is returned when the provider body exceeds the client's limit.
var errPayloadTooLarge = errors.New("provider payload exceeds size limit")

// Config holds the provider connection settings.
type Config struct {
	BaseURL        string
	SearchPath     string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Response is a raw provider payload.
type Response struct {
	Body      []byte
	CacheKey  string
	FromCache bool
	FetchedAt time.Time
}

// Client calls the pricing provider.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   cache.Cache
	breaker *circuitbreaker.CircuitBreaker
	now     func() time.Time
	maxBody int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCache enables payload caching.
func WithCache(pc cache.Cache) Option {
	return func(c *Client) {
		c.cache = pc
	}
}

// WithCircuitBreaker replaces the default circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewClient creates a provider client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.SearchPath == "" {
		cfg.SearchPath = "/pricing/search"
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 200 * time.Millisecond
	}

	breakerCfg := circuitbreaker.DefaultConfig()
	breakerCfg.Name = "pricing-provider"

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New(breakerCfg),
		now:     time.Now,
		maxBody: maxPayloadBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a provider base URL is set.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// Stats returns the circuit breaker statistics.
func (c *Client) Stats() circuitbreaker.Stats {
	return c.breaker.GetStats()
}

type searchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Infants       int    `json:"infants"`
	CabinClass    string `json:"cabinClass,omitempty"`
}

// CacheKey derives the cache key of a search query.
func CacheKey(q model.SearchQuery) string {
	return strings.Join([]string{
		"search",
		strings.ToUpper(q.Origin),
		strings.ToUpper(q.Destination),
		q.DepartureDate,
		q.ReturnDate,
		strconv.Itoa(q.Adults),
		strconv.Itoa(q.Children),
		strconv.Itoa(q.Infants),
		strings.ToUpper(q.CabinClass),
	}, ":")
}

// Search fetches the pricing payload for a query, serving it from cache when possible.
func (c *Client) Search(ctx context.Context, q model.SearchQuery) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	key := CacheKey(q)
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, key); ok {
			metrics.RecordProviderRequest(0, "cache_hit")
			return &Response{Body: body, CacheKey: key, FromCache: true, FetchedAt: c.now()}, nil
		}
	}

	payload, err := json.Marshal(searchRequest{
		Origin:        strings.ToUpper(q.Origin),
		Destination:   strings.ToUpper(q.Destination),
		DepartureDate: q.DepartureDate,
		ReturnDate:    q.ReturnDate,
		Adults:        q.Adults,
		Children:      q.Children,
		Infants:       q.Infants,
		CabinClass:    q.CabinClass,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	start := c.now()
	body, err := c.postWithRetry(ctx, c.cfg.BaseURL+c.cfg.SearchPath, payload)
	if err != nil {
		metrics.RecordProviderRequest(time.Since(start), "error")
		return nil, err
	}
	metrics.RecordProviderRequest(time.Since(start), "success")

	if c.cache != nil {
		c.cache.Set(ctx, key, body)
	}
	return &Response{Body: body, CacheKey: key, FetchedAt: c.now()}, nil
}

// statusError is a non-retryable provider answer.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.status, e.body)
}

func (c *Client) postWithRetry(ctx context.Context, url string, payload []byte) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryBaseDelay
	retries := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(c.cfg.MaxRetries, 0))), ctx)

	var body []byte
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var clientErr *statusError
		err := c.breaker.Execute(ctx, func() error {
			b, err := c.post(ctx, url, payload)
			if err != nil {
				var se *statusError
				if errors.As(err, &se) && se.status < http.StatusInternalServerError {
					clientErr = se
					return nil
				}
				return err
			}
			body = b
			return nil
		})

		switch {
		case clientErr != nil:
			return backoff.Permanent(clientErr)
		case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, errPayloadTooLarge):
			return backoff.Permanent(err)
		case err != nil:
			log.Warn().Err(err).Int("attempt", attempt).Msg("Pricing provider request failed")
			return err
		}
		return nil
	}, retries)

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody && resp.StatusCode < http.StatusBadRequest {
		return nil, fmt.Errorf("%w: more than %d bytes", errPayloadTooLarge, c.maxBody)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, &statusError{status: resp.StatusCode, body: snippet}
	}
	return body, nil
}
