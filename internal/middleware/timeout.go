package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
)

// DefaultTimeout applies to provider-backed routes.
const DefaultTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. Handlers and the
// provider client stop when it passes; if they return without writing a
// response, a 504 is written here.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		message := i18n.GetTranslator().Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusGatewayTimeout,
			dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
	}
}
