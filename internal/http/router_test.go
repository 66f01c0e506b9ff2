package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/mocks"
	"github.com/guttosm/fare-offer-service/internal/middleware"
)

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := setupRouterWithMock(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestRouter_APIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "missing key", key: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "nope", wantStatus: http.StatusUnauthorized},
		{name: "valid key", key: testAPIKey, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, offers := setupRouterWithMock(t)
			if tt.wantStatus == http.StatusOK {
				offers.On("RecentPayloads", mock.Anything, mock.Anything, 20).Return(nil, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/payloads", nil)
			if tt.key != "" {
				req.Header.Set(middleware.APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_JWTAuthReplacesAPIKeys(t *testing.T) {
	offers := &mocks.MockOfferService{}
	offers.On("Normalize", mock.Anything, mock.Anything).Return(model.OfferResult{Offers: []model.Offer{}}, nil)

	cfg := testRouterConfig(t)
	cfg.JWT = &middleware.JWTConfig{Secret: []byte("router-secret")}
	router := NewRouter(NewHealthHandler(), cfg, NewOfferRoutes(NewHandler(offers)))
	defer router.Close()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "storefront",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("router-secret"))
	require.NoError(t, err)

	apiKeyOnly := doRequest(router, http.MethodPost, "/api/offers/normalize", `{}`)
	assert.Equal(t, http.StatusUnauthorized, apiKeyOnly.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/offers/normalize", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	offers := &mocks.MockOfferService{}
	offers.On("RecentPayloads", mock.Anything, mock.Anything, 20).Return(nil, nil)

	cfg := testRouterConfig(t)
	cfg.RateLimit = 2
	cfg.RateWindow = time.Minute
	router := NewRouter(NewHealthHandler(), cfg, NewPayloadRoutes(NewPayloadHandler(offers)))
	defer router.Close()

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = doRequest(router, http.MethodGet, "/api/payloads", "").Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRouter_SwaggerBasicAuth(t *testing.T) {
	cfg := testRouterConfig(t)
	cfg.SwaggerUser = "docs"
	cfg.SwaggerPass = "secret"
	router := NewRouter(NewHealthHandler(), cfg)
	defer router.Close()

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("docs", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := setupRouterWithMock(t)

	w := doRequest(router, http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AuthDisabled(t *testing.T) {
	offers := &mocks.MockOfferService{}
	offers.On("RecentPayloads", mock.Anything, mock.Anything, 20).Return(nil, nil)

	cfg := testRouterConfig(t)
	cfg.APIClients = nil
	router := NewRouter(NewHealthHandler(), cfg, NewPayloadRoutes(NewPayloadHandler(offers)))
	defer router.Close()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/payloads", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
