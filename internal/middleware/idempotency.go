package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/cache"
)

const (
	// IdempotencyKeyHeader carries the caller's idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader is set on responses served from the store.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	idempotencyKeyPrefix = "idem:"
)

// storedResponse is a captured response as kept in the cache.
type storedResponse struct {
	StatusCode  int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated write with the
// same Idempotency-Key, method, path, caller and body. Only 2xx responses
// are stored. Responses live in store, so a Redis-backed store shares them
// across replicas; its TTL bounds how long a key is honoured.
func Idempotency(store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey, err := idempotencyCacheKey(c, key)
		if err != nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		if resp, ok := loadResponse(ctx, store, cacheKey); ok {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(resp.StatusCode, resp.ContentType, resp.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		status := writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		raw, err := json.Marshal(storedResponse{
			StatusCode:  status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		})
		if err != nil {
			return
		}
		store.Set(context.WithoutCancel(ctx), cacheKey, raw)
	}
}

func isWriteMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// idempotencyCacheKey hashes the key with the request identity. The body is
// read and restored for the handler.
func idempotencyCacheKey(c *gin.Context, key string) (string, error) {
	h := sha256.New()
	for _, part := range []string{key, c.Request.Method, c.Request.URL.Path, GetClientID(c)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}

	if c.Request.Body != nil {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return idempotencyKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func loadResponse(ctx context.Context, store cache.Cache, key string) (storedResponse, bool) {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return storedResponse{}, false
	}
	var resp storedResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.StatusCode == 0 {
		return storedResponse{}, false
	}
	return resp, true
}

// captureWriter tees the response body.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
