package model

import (
	"maps"
	"time"
)

// LogEntry is a request or audit log line persisted to the log sink.
// Context specific data goes in Fields.
type LogEntry struct {
	ID         string         `json:"id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	RequestID  string         `json:"request_id,omitempty"`
	Method     string         `json:"method,omitempty"`
	Path       string         `json:"path,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	Duration   int64          `json:"duration_ms,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Error      string         `json:"error,omitempty"`
	ClientID   string         `json:"client_id,omitempty"`
	Action     string         `json:"action,omitempty"` // normalize, search, confirm, replay
	Fields     map[string]any `json:"fields,omitempty"`
}

// WithField sets one field and returns e.
func (e *LogEntry) WithField(key string, value any) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into e and returns e.
func (e *LogEntry) WithFields(fields map[string]any) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]any, len(fields))
	}
	maps.Copy(e.Fields, fields)
	return e
}

// LogQueryOptions filters stored log entries.
type LogQueryOptions struct {
	RequestID string
	Level     string
	Action    string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}
