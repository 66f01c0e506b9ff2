// Package logger configures the zerolog logger shared by the service.
package logger

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ServiceName is attached to every log line.
const ServiceName = "fare-offer-service"

// Init configures the global logger. Unknown levels fall back to info.
func Init(level string, pretty bool) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = New(os.Stderr, pretty)
}

// New builds a logger writing to w, as JSON or in console format.
func New(w io.Writer, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithFields returns the global logger with fields attached in key order.
func WithFields(fields map[string]any) zerolog.Logger {
	ctx := log.Logger.With()
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		ctx = ctx.Interface(k, fields[k])
	}
	return ctx.Logger()
}

// IntoContext stores l in ctx.
func IntoContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the request-scoped logger stored in ctx, or the
// global logger when there is none.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	l := log.Logger
	return &l
}
