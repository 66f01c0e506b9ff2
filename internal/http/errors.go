package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/fare"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/provider"
	"github.com/guttosm/fare-offer-service/internal/repository"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// statusClientClosedRequest is used when the caller went away mid-request.
const statusClientClosedRequest = 499

// errorStatus maps a service error to a status and message key.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, fare.ErrNotConfirmedOffer):
		return http.StatusUnprocessableEntity, i18n.ErrKeyNotConfirmedOffer
	case errors.Is(err, service.ErrInvalidPayload):
		return http.StatusUnprocessableEntity, i18n.ErrKeyInvalidPayload
	case errors.Is(err, repository.ErrInvalidPayloadID):
		return http.StatusBadRequest, i18n.ErrKeyInvalidPayloadID
	case errors.Is(err, repository.ErrPayloadNotFound):
		return http.StatusNotFound, i18n.ErrKeyPayloadNotFound
	case errors.Is(err, service.ErrArchiveNotConfigured):
		return http.StatusServiceUnavailable, i18n.ErrKeyArchiveDisabled
	case errors.Is(err, provider.ErrNotConfigured):
		return http.StatusServiceUnavailable, i18n.ErrKeyProviderDisabled
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable
	case errors.Is(err, provider.ErrUpstream):
		return http.StatusBadGateway, i18n.ErrKeyProviderUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, i18n.ErrKeyTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, i18n.ErrKeyServiceUnavailable
	default:
		return http.StatusInternalServerError, i18n.ErrKeyInternalError
	}
}

// ServiceError writes the response for an error returned by a service.
func (b *ResponseBuilder) ServiceError(err error) {
	status, key := errorStatus(err)
	b.Error(status, key, err)
}

func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s parameter", name)
}
