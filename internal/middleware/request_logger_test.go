package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/mocks"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   string
	}{
		{200, "info"},
		{301, "info"},
		{400, "warn"},
		{404, "warn"},
		{500, "error"},
		{503, "error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, getLogLevel(tt.statusCode))
		})
	}
}

func TestRequestLogger_QueuesEntry(t *testing.T) {
	svc := &mocks.MockLoggingService{}
	var written []*model.LogEntry
	svc.On("CreateLogs", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]*model.LogEntry) }).
		Return(nil)

	sink := NewAsyncLogger(svc, AsyncLoggerConfig{BatchSize: 10, FlushInterval: time.Hour})
	router := newTestRouter(RequestID(), APIKeyAuth(map[string]string{"storefront": "k"}), RequestLogger(sink))
	router.POST("/api/offers/search", func(c *gin.Context) {
		SetAction(c, "search")
		_ = c.Error(errors.New("provider unavailable"))
		c.Status(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/offers/search", nil)
	req.Header.Set(APIKeyHeader, "k")
	req.Header.Set("User-Agent", "storefront/1.0")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	sink.Stop()

	require.Len(t, written, 1)
	entry := written[0]
	assert.Equal(t, "error", entry.Level)
	assert.Equal(t, http.StatusBadGateway, entry.StatusCode)
	assert.Equal(t, "search", entry.Action)
	assert.Equal(t, "storefront", entry.ClientID)
	assert.Equal(t, "provider unavailable", entry.Error)
	assert.Equal(t, "storefront/1.0", entry.UserAgent)
	assert.Equal(t, w.Header().Get(RequestIDHeader), entry.RequestID)
}

func TestRequestLogger_NilSink(t *testing.T) {
	router := newTestRouter(RequestID(), RequestLogger(nil))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
