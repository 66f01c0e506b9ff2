package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// APIKeyAuth validates API keys against clients, a map of client name to key.
// The X-API-Key header is checked first, then the api_key query parameter.
// Authentication is disabled when clients is empty.
func APIKeyAuth(clients map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(clients) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}

		clientID, ok := matchAPIKey(clients, key)
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}

		setClientID(c, clientID)
		c.Next()
	}
}

func matchAPIKey(clients map[string]string, key string) (string, bool) {
	for name, want := range clients {
		if subtle.ConstantTimeCompare([]byte(want), []byte(key)) == 1 {
			return name, true
		}
	}
	return "", false
}

func abortUnauthorized(c *gin.Context, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewError(dto.ErrCodeUnauthorized, message).WithRequestID(GetRequestID(c)))
}
