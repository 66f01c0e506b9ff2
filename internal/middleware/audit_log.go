package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

// AuditLog records a business event, such as a price confirmation, in the
// log sink alongside request logs.
func AuditLog(sink *AsyncLogger, c *gin.Context, action, message string, fields map[string]any) {
	sink.Log(auditEntry(c, "info", action, message, fields))
}

// AuditLogError records a failed business event.
func AuditLogError(sink *AsyncLogger, c *gin.Context, action, message string, err error, fields map[string]any) {
	entry := auditEntry(c, "error", action, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	sink.Log(entry)
}

func auditEntry(c *gin.Context, level, action, message string, fields map[string]any) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		RequestID: GetRequestID(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		ClientID:  GetClientID(c),
		Action:    action,
	}
	return entry.WithFields(fields)
}
