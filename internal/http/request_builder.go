package http

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
	"github.com/guttosm/fare-offer-service/internal/middleware"
)

// DefaultMaxBodyBytes caps raw provider payloads accepted from callers.
const DefaultMaxBodyBytes int64 = 8 << 20

var errEmptyBody = errors.New("request body is empty")

var successResponsePool = sync.Pool{
	New: func() any { return &dto.SuccessResponse{} },
}

// ReadBody reads at most limit bytes of the request body.
func ReadBody(c *gin.Context, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errEmptyBody
	}
	return body, nil
}

// Validator is implemented by request DTOs with rules beyond binding tags.
type Validator interface {
	Validate() error
}

// BuildRequestAndValidate binds the JSON body into T and runs Validate when
// T implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// ResponseBuilder writes the response envelopes.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a response builder for c.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success writes data in a SuccessResponse.
func (b *ResponseBuilder) Success(statusCode int, data any) {
	resp := successResponsePool.Get().(*dto.SuccessResponse)
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	// gin serializes synchronously, so resp can go back to the pool afterwards.
	b.c.JSON(statusCode, resp)

	*resp = dto.SuccessResponse{}
	successResponsePool.Put(resp)
}

// SuccessOK writes a 200 response.
func (b *ResponseBuilder) SuccessOK(data any) {
	b.Success(http.StatusOK, data)
}

// Error writes an ErrorResponse with the translated message for messageKey.
// err, when set, is attached to the context for the request log.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.abort(statusCode, b.errorResponse(statusCode, messageKey), err)
}

// ValidationError writes a 400 for a failed field rule.
func (b *ResponseBuilder) ValidationError(verr *dto.ValidationError) {
	resp := b.errorResponse(http.StatusBadRequest, verr.MessageKey).
		WithDetail(verr.Field, i18n.GetTranslator().Translate(verr.MessageKey, i18n.GetLocale(b.c)))
	b.abort(http.StatusBadRequest, resp, verr)
}

func (b *ResponseBuilder) errorResponse(statusCode int, messageKey string) dto.ErrorResponse {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	return dto.NewError(dto.ErrCodeFromStatus(statusCode), message).
		WithRequestID(middleware.GetRequestID(b.c))
}

func (b *ResponseBuilder) abort(statusCode int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(statusCode, resp)
}
