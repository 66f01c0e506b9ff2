package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
)

// ErrorHandler turns errors attached with c.Error into a 500 response when
// the handler wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}

		GetRequestLogger(c).Error().
			Err(err.Err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.JSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
		}
	}
}
