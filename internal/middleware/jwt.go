package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/fare-offer-service/internal/i18n"
)

// JWTConfig configures bearer token verification. Tokens are issued by the
// storefront identity service and signed with a shared HMAC secret.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
}

var errMissingSubject = errors.New("token has no subject")

// JWTAuth validates "Authorization: Bearer <token>" and uses the token
// subject as the client id.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		subject, err := verifyToken(parser, tokenString, cfg.Secret)
		if err != nil {
			GetRequestLogger(c).Debug().Err(err).Msg("Bearer token rejected")
			abortUnauthorized(c, i18n.ErrKeyInvalidToken)
			return
		}

		setClientID(c, subject)
		c.Next()
	}
}

func verifyToken(parser *jwt.Parser, tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}
