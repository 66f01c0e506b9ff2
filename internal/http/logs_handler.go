package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/service"
)

// LogsPage is a page of stored request and audit logs.
//
// @Description Stored log entries
type LogsPage struct {
	Entries []model.LogEntry `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Skip    int              `json:"skip"`
} // @name LogsPage

// LogsHandler exposes the log sink for support lookups, such as finding the
// audit entry of a disputed confirmation by request id.
type LogsHandler struct {
	logs service.LoggingService
}

// NewLogsHandler creates a LogsHandler.
func NewLogsHandler(logs service.LoggingService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

// ListLogs handles GET /api/logs.
//
// @Summary      Query stored logs
// @Tags         Logs
// @Produce      json
// @Param        request_id query string false "Request ID"
// @Param        level query string false "Level"
// @Param        action query string false "Action (normalize, search, confirm, replay)"
// @Param        since query string false "RFC 3339 lower bound"
// @Param        until query string false "RFC 3339 upper bound"
// @Param        limit query int false "Maximum results (1-100)" default(20)
// @Param        skip query int false "Entries to skip"
// @Success      200 {object} dto.SuccessResponse{data=LogsPage}
// @Failure      400 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/logs [get]
func (h *LogsHandler) ListLogs(c *gin.Context) {
	builder := NewResponseBuilder(c)

	opts, err := logQueryFromParams(c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	ctx := c.Request.Context()
	entries, err := h.logs.QueryLogs(ctx, opts)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	total, err := h.logs.CountLogs(ctx, opts)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	if entries == nil {
		entries = []model.LogEntry{}
	}
	builder.SuccessOK(LogsPage{Entries: entries, Total: total, Limit: opts.Limit, Skip: opts.Skip})
}

func logQueryFromParams(c *gin.Context) (model.LogQueryOptions, error) {
	opts := model.LogQueryOptions{
		RequestID: c.Query("request_id"),
		Level:     c.Query("level"),
		Action:    c.Query("action"),
		Limit:     defaultListLimit,
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return opts, errInvalidParam("limit")
		}
		opts.Limit = min(n, maxListLimit)
	}
	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, errInvalidParam("skip")
		}
		opts.Skip = n
	}

	for name, dst := range map[string]**time.Time{"since": &opts.StartTime, "until": &opts.EndTime} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, errInvalidParam(name)
		}
		*dst = &t
	}
	return opts, nil
}
