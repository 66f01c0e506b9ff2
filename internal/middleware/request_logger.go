package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/logger"
)

// ActionKey is the context key handlers use to name the operation a request
// performed (normalize, search, confirm, replay).
const ActionKey ContextKey = "action"

// SetAction names the operation for the request log.
func SetAction(c *gin.Context, action string) {
	c.Set(string(ActionKey), action)
}

// GetRequestLogger returns the request-scoped logger.
func GetRequestLogger(c *gin.Context) *zerolog.Logger {
	return logger.FromContext(c.Request.Context())
}

// RequestLogger logs one line per request and, when sink is non-nil, queues
// the entry for MongoDB.
func RequestLogger(sink *AsyncLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		entry := &model.LogEntry{
			Timestamp:  time.Now().UTC(),
			Level:      getLogLevel(statusCode),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: statusCode,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			ClientID:   GetClientID(c),
			Action:     c.GetString(string(ActionKey)),
		}
		if err := c.Errors.Last(); err != nil {
			entry.Error = err.Error()
		}

		l := GetRequestLogger(c)
		var event *zerolog.Event
		switch {
		case statusCode >= 500:
			event = l.Error()
		case statusCode >= 400:
			event = l.Warn()
		default:
			event = l.Info()
		}
		event.
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status_code", statusCode).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("user_agent", entry.UserAgent).
			Str("action", entry.Action).
			Msg("HTTP request")

		sink.Log(entry)
	}
}

func getLogLevel(statusCode int) string {
	switch {
	case statusCode >= 500:
		return "error"
	case statusCode >= 400:
		return "warn"
	default:
		return "info"
	}
}
