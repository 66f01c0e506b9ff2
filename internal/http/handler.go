package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/middleware"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// Handler serves the offer routes.
type Handler struct {
	offers       service.OfferService
	audit        *middleware.AsyncLogger
	maxBodyBytes int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithAuditLog records confirmations in the log sink.
func WithAuditLog(sink *middleware.AsyncLogger) HandlerOption {
	return func(h *Handler) {
		h.audit = sink
	}
}

// WithMaxBodyBytes caps raw payload bodies.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

// NewHandler creates a Handler.
func NewHandler(offers service.OfferService, opts ...HandlerOption) *Handler {
	h := &Handler{
		offers:       offers,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NormalizeOffers handles POST /api/offers/normalize.
//
// @Summary      Normalize a provider payload
// @Description  Turns a raw pricing provider payload into offers. Solutions that reference unknown flights or segments are skipped and counted. A confirmed-offer payload is passed through as a single offer.
// @Tags         Offers
// @Accept       json
// @Produce      json
// @Param        payload body object true "Raw provider payload"
// @Success      200 {object} dto.SuccessResponse{data=model.OfferResult}
// @Failure      400 {object} dto.ErrorResponse "Empty or oversized body"
// @Failure      401 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Body is not JSON"
// @Failure      429 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/offers/normalize [post]
func (h *Handler) NormalizeOffers(c *gin.Context) {
	middleware.SetAction(c, "normalize")
	builder := NewResponseBuilder(c)

	body, err := ReadBody(c, h.maxBodyBytes)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	result, err := h.offers.Normalize(c.Request.Context(), body)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(result)
}

// SearchOffers handles POST /api/offers/search.
//
// @Summary      Search offers
// @Description  Fetches a pricing payload from the provider, archives fresh payloads and returns the normalized offers. Provider payloads are cached per query.
// @Tags         Offers
// @Accept       json
// @Produce      json
// @Param        request body dto.SearchOffersRequest true "Search query"
// @Success      200 {object} dto.SuccessResponse{data=model.OfferResult}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      429 {object} dto.ErrorResponse
// @Failure      502 {object} dto.ErrorResponse "Provider error"
// @Failure      503 {object} dto.ErrorResponse "Provider not configured or circuit open"
// @Failure      504 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/offers/search [post]
func (h *Handler) SearchOffers(c *gin.Context) {
	middleware.SetAction(c, "search")
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.SearchOffersRequest](c)
	if err != nil {
		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			builder.ValidationError(verr)
			return
		}
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	result, err := h.offers.Search(c.Request.Context(), req.Query())
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(result)
}

// ConfirmOffer handles POST /api/offers/confirm.
//
// @Summary      Confirm an offer price
// @Description  Passes a confirmed offer from the provider's precise pricing call through and re-derives its grand total from the price lines. Repeating a request with the same Idempotency-Key returns the stored response.
// @Tags         Offers
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key"
// @Param        payload body object true "Confirmed offer payload"
// @Success      200 {object} dto.SuccessResponse{data=model.ConfirmResult}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Not a confirmed offer"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/offers/confirm [post]
func (h *Handler) ConfirmOffer(c *gin.Context) {
	middleware.SetAction(c, "confirm")
	builder := NewResponseBuilder(c)

	body, err := ReadBody(c, h.maxBodyBytes)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	result, err := h.offers.Confirm(c.Request.Context(), body)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	fields := map[string]any{
		"offer_id":         result.Offer.ID,
		"currency":         result.Offer.Price.Currency,
		"grand_total":      result.Offer.Price.GrandTotal,
		"recomputed_total": result.RecomputedTotal,
		"expired":          result.Offer.Expired,
	}
	if result.TotalMatches {
		middleware.AuditLog(h.audit, c, "confirm", "Price confirmed", fields)
	} else {
		middleware.AuditLogError(h.audit, c, "confirm", "Confirmed price does not match its lines", nil, fields)
	}
	builder.SuccessOK(result)
}
