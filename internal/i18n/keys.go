package i18n

// Error message keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyTimeout            = "error.timeout"

	// ErrKeyInvalidPayload is returned when a body is not a provider payload.
	ErrKeyInvalidPayload = "error.invalid_payload"
	// ErrKeyNotConfirmedOffer is returned by the confirm route for search payloads.
	ErrKeyNotConfirmedOffer = "error.not_confirmed_offer"
	ErrKeyPayloadNotFound   = "error.payload_not_found"
	ErrKeyInvalidPayloadID  = "error.invalid_payload_id"
	ErrKeyArchiveDisabled   = "error.archive_disabled"
	ErrKeyProviderDisabled  = "error.provider_disabled"
	// ErrKeyProviderUnavailable covers upstream failures and an open circuit.
	ErrKeyProviderUnavailable = "error.provider_unavailable"
	ErrKeyServiceUnavailable  = "error.service_unavailable"

	ErrKeyValidationAirport       = "error.validation.airport"
	ErrKeyValidationDepartureDate = "error.validation.departure_date"
	ErrKeyValidationReturnDate    = "error.validation.return_date"
	ErrKeyValidationPassengers    = "error.validation.passengers"
	ErrKeyValidationInfants       = "error.validation.infants"
)
