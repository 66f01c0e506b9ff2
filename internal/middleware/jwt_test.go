package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-shared-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "storefront",
		Issuer:    "identity",
		Audience:  jwt.ClaimStrings{"fare-offer-service"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
}

func TestJWTAuth(t *testing.T) {
	cfg := JWTConfig{Secret: testSecret, Issuer: "identity", Audience: "fare-offer-service"}

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	noSubject := validClaims()
	noSubject.Subject = ""
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, validClaims()),
			wantStatus: http.StatusOK,
			wantBody:   "storefront",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authentication token is required",
		},
		{
			name:       "not a bearer token",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid or expired token",
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong algorithm",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, validClaims()),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, expired),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing expiry",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, noExpiry),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong issuer",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, wrongIssuer),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no subject",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, noSubject),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(RequestID(), JWTAuth(cfg))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, GetClientID(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
