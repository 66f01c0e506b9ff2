package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/middleware"
	"github.com/guttosm/fare-offer-service/internal/repository"
	"github.com/guttosm/fare-offer-service/internal/service"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// PayloadHandler serves the payload archive routes.
type PayloadHandler struct {
	offers service.OfferService
}

// NewPayloadHandler creates a PayloadHandler.
func NewPayloadHandler(offers service.OfferService) *PayloadHandler {
	return &PayloadHandler{offers: offers}
}

// ListPayloads handles GET /api/payloads.
//
// @Summary      List archived payloads
// @Description  Lists archived provider payloads, newest first. When origin, destination and departure_date are given only payloads for that query are returned.
// @Tags         Payloads
// @Produce      json
// @Param        origin query string false "Origin airport"
// @Param        destination query string false "Destination airport"
// @Param        departure_date query string false "Departure date"
// @Param        return_date query string false "Return date"
// @Param        adults query int false "Adults"
// @Param        children query int false "Children"
// @Param        infants query int false "Infants"
// @Param        cabin_class query string false "Cabin class"
// @Param        limit query int false "Maximum results (1-100)" default(20)
// @Success      200 {object} dto.SuccessResponse{data=[]dto.PayloadSummary}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse "Archive disabled"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/payloads [get]
func (h *PayloadHandler) ListPayloads(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
			return
		}
		limit = min(n, maxListLimit)
	}

	query, err := queryFromParams(c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	docs, err := h.offers.RecentPayloads(c.Request.Context(), query, limit)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	summaries := make([]dto.PayloadSummary, len(docs))
	for i := range docs {
		summaries[i] = toPayloadSummary(&docs[i])
	}
	builder.SuccessOK(summaries)
}

// GetPayload handles GET /api/payloads/:id.
//
// @Summary      Get archived payload metadata
// @Tags         Payloads
// @Produce      json
// @Param        id path string true "Payload ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.PayloadSummary}
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse "Archive disabled"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/payloads/{id} [get]
func (h *PayloadHandler) GetPayload(c *gin.Context) {
	builder := NewResponseBuilder(c)

	doc, err := h.offers.Payload(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(toPayloadSummary(doc))
}

// ReplayPayload handles POST /api/payloads/:id/normalize.
//
// @Summary      Normalize an archived payload again
// @Tags         Payloads
// @Produce      json
// @Param        id path string true "Payload ID"
// @Success      200 {object} dto.SuccessResponse{data=model.OfferResult}
// @Failure      400 {object} dto.ErrorResponse "Invalid id"
// @Failure      404 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse "Archive disabled"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/payloads/{id}/normalize [post]
func (h *PayloadHandler) ReplayPayload(c *gin.Context) {
	middleware.SetAction(c, "replay")
	builder := NewResponseBuilder(c)

	result, err := h.offers.Replay(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(result)
}

// queryFromParams returns nil when no search filter is given.
func queryFromParams(c *gin.Context) (*model.SearchQuery, error) {
	if c.Query("origin") == "" && c.Query("destination") == "" && c.Query("departure_date") == "" {
		return nil, nil
	}

	req := dto.SearchOffersRequest{
		Origin:        c.Query("origin"),
		Destination:   c.Query("destination"),
		DepartureDate: c.Query("departure_date"),
		ReturnDate:    c.Query("return_date"),
		CabinClass:    c.Query("cabin_class"),
		Adults:        1,
	}
	for name, dst := range map[string]*int{"adults": &req.Adults, "children": &req.Children, "infants": &req.Infants} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		*dst = n
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	q := req.Query()
	return &q, nil
}

func toPayloadSummary(doc *repository.PayloadDocument) dto.PayloadSummary {
	return dto.PayloadSummary{
		ID:        doc.ID.Hex(),
		CacheKey:  doc.CacheKey,
		Origin:    doc.Query.Origin,
		Dest:      doc.Query.Destination,
		Departure: doc.Query.DepartureDate,
		Return:    doc.Query.ReturnDate,
		SizeBytes: doc.Size,
		FetchedAt: doc.FetchedAt,
		ExpiresAt: doc.ExpiresAt,
	}
}
