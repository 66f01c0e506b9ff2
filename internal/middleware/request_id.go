// Package middleware provides the gin middleware chain of the fare offer service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/fare-offer-service/internal/logger"
)

const (
	// RequestIDHeader is the HTTP header name for request ID.
	RequestIDHeader = "X-Request-ID"
)

// ContextKey type for context keys to avoid collisions.
type ContextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey ContextKey = "request_id"
	// ClientIDKey is the context key for the authenticated caller.
	ClientIDKey ContextKey = "client_id"
)

// RequestID ensures each request has an ID, reusing X-Request-ID when the
// caller sends one. It also stores a logger tagged with the ID in the
// request context so services log with it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)

		l := logger.Logger().With().Str("request_id", requestID).Logger()
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), l))
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	return c.GetString(string(RequestIDKey))
}

// GetClientID returns the caller identified by the auth middleware, or "".
func GetClientID(c *gin.Context) string {
	return c.GetString(string(ClientIDKey))
}

// setClientID records the caller and tags the request logger with it.
func setClientID(c *gin.Context, clientID string) {
	c.Set(string(ClientIDKey), clientID)
	ctx := c.Request.Context()
	l := logger.FromContext(ctx).With().Str("client_id", clientID).Logger()
	c.Request = c.Request.WithContext(logger.IntoContext(ctx, l))
}
