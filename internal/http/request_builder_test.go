package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/fare"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/provider"
	"github.com/guttosm/fare-offer-service/internal/repository"
	"github.com/guttosm/fare-offer-service/internal/service"
)

func newTestContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestReadBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
	}{
		{name: "within limit", body: `{"a":1}`, limit: 64},
		{name: "default limit", body: `{"a":1}`, limit: 0},
		{name: "empty", body: "", limit: 64, wantErr: true},
		{name: "too large", body: `{"a":12345}`, limit: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(tt.body)
			got, err := ReadBody(c, tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(got))
		})
	}
}

func TestBuildRequestAndValidate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantValidation bool
		wantErr        bool
	}{
		{name: "valid", body: `{"origin":"JFK","destination":"LHR","departure_date":"2025-07-01","adults":2}`},
		{name: "binding error", body: `{"origin":1}`, wantErr: true},
		{name: "validation error", body: `{"origin":"JFK","destination":"LHR","departure_date":"2025-07-01","adults":2,"infants":3}`, wantErr: true, wantValidation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(tt.body)
			req, err := BuildRequestAndValidate[dto.SearchOffersRequest](c)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 2, req.Adults)
				return
			}
			require.Error(t, err)
			var verr *dto.ValidationError
			assert.Equal(t, tt.wantValidation, errors.As(err, &verr))
		})
	}
}

func TestResponseBuilder_ErrorIsTranslated(t *testing.T) {
	c, w := newTestContext("")
	c.Request.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyPayloadNotFound, repository.ErrPayloadNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error)
	assert.Equal(t, i18n.GetTranslator().Translate(i18n.ErrKeyPayloadNotFound, "pt"), resp.Message)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantKey    string
	}{
		{fmt.Errorf("decode: %w", fare.ErrNotConfirmedOffer), http.StatusUnprocessableEntity, i18n.ErrKeyNotConfirmedOffer},
		{service.ErrInvalidPayload, http.StatusUnprocessableEntity, i18n.ErrKeyInvalidPayload},
		{repository.ErrInvalidPayloadID, http.StatusBadRequest, i18n.ErrKeyInvalidPayloadID},
		{repository.ErrPayloadNotFound, http.StatusNotFound, i18n.ErrKeyPayloadNotFound},
		{service.ErrArchiveNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyArchiveDisabled},
		{provider.ErrNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyProviderDisabled},
		{circuitbreaker.ErrCircuitOpen, http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
		{fmt.Errorf("%w: status 503", provider.ErrUpstream), http.StatusBadGateway, i18n.ErrKeyProviderUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
		{context.Canceled, statusClientClosedRequest, i18n.ErrKeyServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, i18n.ErrKeyInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, key := errorStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
