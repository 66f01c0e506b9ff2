package dto

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	err := NewError(ErrCodeInvalidPayload, "bad").WithRequestID("req-1")

	assert.Equal(t, ErrCodeInvalidPayload, err.Error)
	assert.Equal(t, "bad", err.Message)
	assert.Equal(t, "req-1", err.RequestID)
	assert.WithinDuration(t, time.Now(), err.Timestamp, time.Second)
}

func TestErrorResponse_WithDetail(t *testing.T) {
	base := NewError(ErrCodeInvalidRequest, "invalid")
	first := base.WithDetail("origin", "required")
	second := first.WithDetail("adults", "too many")

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"origin": "required"}, first.Details)
	assert.Equal(t, map[string]string{"origin": "required", "adults": "too many"}, second.Details)
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnprocessableEntity, ErrCodeInvalidPayload},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusBadGateway, ErrCodeUpstream},
		{http.StatusServiceUnavailable, ErrCodeUnavailable},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusTeapot, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrCodeFromStatus(tt.status))
		})
	}
}
