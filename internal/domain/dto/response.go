package dto

import (
	"maps"
	"net/http"
	"time"
)

// Error codes returned in ErrorResponse.Error.
const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeTimeout        = "timeout"
	// ErrCodeUpstream means the pricing provider failed.
	ErrCodeUpstream    = "upstream_error"
	ErrCodeUnavailable = "service_unavailable"
)

// SuccessResponse wraps successful API responses.
//
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data is the endpoint payload, for example an OfferResult.
	Data      any       `json:"data" swaggertype:"object"`
	RequestID string    `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time `json:"timestamp" example:"2025-06-01T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the error body of every endpoint.
//
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"invalid_payload"`
	Message   string            `json:"message,omitempty" example:"Body is not a valid provider payload"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-06-01T10:00:00Z"`
} // @name ErrorResponse

// NewError creates an ErrorResponse stamped with the current time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithRequestID sets the request ID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// WithDetail adds one detail entry, typically a field name and its problem.
func (e ErrorResponse) WithDetail(key, value string) ErrorResponse {
	details := make(map[string]string, len(e.Details)+1)
	maps.Copy(details, e.Details)
	details[key] = value
	e.Details = details
	return e
}

// ErrCodeFromStatus maps an HTTP status to its error code.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnprocessableEntity:
		return ErrCodeInvalidPayload
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeUpstream
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// PayloadSummary is archived provider payload metadata.
//
// @Description Archived provider payload
type PayloadSummary struct {
	ID        string    `json:"id" example:"665f1c2e8b3a4d0012345678"`
	CacheKey  string    `json:"cache_key"`
	Origin    string    `json:"origin" example:"JFK"`
	Dest      string    `json:"destination" example:"LHR"`
	Departure string    `json:"departure_date" example:"2025-07-01"`
	Return    string    `json:"return_date,omitempty"`
	SizeBytes int       `json:"size_bytes"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
} // @name PayloadSummary
