package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/middleware"
)

// RouteGroup registers a set of API routes.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// OfferRoutes are the /offers routes.
type OfferRoutes struct {
	handler *Handler
}

// NewOfferRoutes creates the offer routes.
func NewOfferRoutes(handler *Handler) *OfferRoutes {
	return &OfferRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup. Search goes to the provider and gets
// a deadline; confirm honours Idempotency-Key.
func (r *OfferRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	offers := rg.Group("/offers")
	offers.POST("/normalize", r.handler.NormalizeOffers)
	offers.POST("/search", middleware.Timeout(cfg.SearchTimeout), r.handler.SearchOffers)
	offers.POST("/confirm", middleware.Idempotency(cfg.IdempotencyStore), r.handler.ConfirmOffer)
}

// PayloadRoutes are the /payloads routes.
type PayloadRoutes struct {
	handler *PayloadHandler
}

// NewPayloadRoutes creates the payload archive routes.
func NewPayloadRoutes(handler *PayloadHandler) *PayloadRoutes {
	return &PayloadRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *PayloadRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	payloads := rg.Group("/payloads")
	payloads.GET("", r.handler.ListPayloads)
	payloads.GET("/:id", r.handler.GetPayload)
	payloads.POST("/:id/normalize", r.handler.ReplayPayload)
}

// LogsRoutes are the /logs routes.
type LogsRoutes struct {
	handler *LogsHandler
}

// NewLogsRoutes creates the log query routes.
func NewLogsRoutes(handler *LogsHandler) *LogsRoutes {
	return &LogsRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *LogsRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/logs", r.handler.ListLogs)
}
