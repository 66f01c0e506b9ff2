package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/internal/cache"
	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

var testQuery = model.SearchQuery{
	Origin:        "gru",
	Destination:   "lis",
	DepartureDate: "2025-09-01",
	Adults:        2,
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(testQuery)
	b := CacheKey(model.SearchQuery{Origin: "GRU", Destination: "LIS", DepartureDate: "2025-09-01", Adults: 2})
	c := CacheKey(model.SearchQuery{Origin: "GRU", Destination: "LIS", DepartureDate: "2025-09-01", Adults: 1})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestClient_Search(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pricing/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))

		var req searchRequest
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "GRU", req.Origin)
		assert.Equal(t, 2, req.Adults)

		_, _ = w.Write([]byte(`{"solutions":[]}`))
	})

	t.Run("fetches from provider", func(t *testing.T) {
		client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
		resp, err := client.Search(context.Background(), testQuery)

		require.NoError(t, err)
		assert.JSONEq(t, `{"solutions":[]}`, string(resp.Body))
		assert.False(t, resp.FromCache)
		assert.Equal(t, CacheKey(testQuery), resp.CacheKey)
	})

	t.Run("serves repeated queries from cache", func(t *testing.T) {
		pc := cache.NewShardedCache(16, time.Minute, 1)
		defer pc.Stop()
		client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"}, WithCache(pc))

		before := calls.Load()
		first, err := client.Search(context.Background(), testQuery)
		require.NoError(t, err)
		second, err := client.Search(context.Background(), testQuery)
		require.NoError(t, err)

		assert.Equal(t, before+1, calls.Load())
		assert.False(t, first.FromCache)
		assert.True(t, second.FromCache)
		assert.Equal(t, first.Body, second.Body)
	})
}

func TestClient_Search_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{}).Search(context.Background(), testQuery)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantErr    bool
		wantCalls  int32
	}{
		{name: "client error is not retried", statuses: []int{http.StatusBadRequest}, maxRetries: 3, wantErr: true, wantCalls: 1},
		{name: "server error is retried until success", statuses: []int{http.StatusBadGateway, http.StatusOK}, maxRetries: 2, wantCalls: 2},
		{name: "server error exhausts retries", statuses: []int{http.StatusServiceUnavailable}, maxRetries: 1, wantErr: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				n := int(calls.Add(1)) - 1
				status := tt.statuses[min(n, len(tt.statuses)-1)]
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"solutions":[]}`))
			})

			client := NewClient(Config{BaseURL: srv.URL, MaxRetries: tt.maxRetries, RetryBaseDelay: time.Millisecond})
			_, err := client.Search(context.Background(), testQuery)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUpstream)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestClient_Search_CircuitOpen(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "test",
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
	})
	client := NewClient(Config{BaseURL: srv.URL}, WithCircuitBreaker(breaker))

	for range 2 {
		_, err := client.Search(context.Background(), testQuery)
		require.ErrorIs(t, err, ErrUpstream)
	}
	_, err := client.Search(context.Background(), testQuery)

	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "open", client.Stats().State)
}

func TestClient_Search_PayloadTooLarge(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"solutions":[],"padding":"0123456789"}`))
	})

	tests := []struct {
		name    string
		maxBody int64
		wantErr bool
	}{
		{name: "body within limit", maxBody: 1024},
		{name: "body exactly at limit", maxBody: int64(len(`{"solutions":[],"padding":"0123456789"}`))},
		{name: "body over limit is rejected", maxBody: 16, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := cache.NewShardedCache(16, time.Minute, 1)
			defer pc.Stop()
			client := NewClient(Config{BaseURL: srv.URL, MaxRetries: 2, RetryBaseDelay: time.Millisecond}, WithCache(pc))
			client.maxBody = tt.maxBody

			before := calls.Load()
			resp, err := client.Search(context.Background(), testQuery)

			assert.Equal(t, before+1, calls.Load(), "oversized bodies are not retried")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.JSONEq(t, `{"solutions":[],"padding":"0123456789"}`, string(resp.Body))
				return
			}
			assert.ErrorIs(t, err, ErrUpstream)
			assert.ErrorIs(t, err, errPayloadTooLarge)
			_, cached := pc.Get(context.Background(), CacheKey(testQuery))
			assert.False(t, cached)
		})
	}
}
