package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fare-offer-service/internal/domain/dto"
	"github.com/guttosm/fare-offer-service/internal/i18n"
)

const defaultNumShards = 16

// rateWindow tracks one caller's fixed rate limit window.
type rateWindow struct {
	remaining int
	resetAt   time.Time
}

type rateLimiterShard struct {
	mu      sync.Mutex
	callers map[string]*rateWindow
}

// RateLimiter is a fixed-window limiter sharded by caller to keep lock
// contention low. Callers are identified by client id when authenticated,
// otherwise by IP.
type RateLimiter struct {
	shards []*rateLimiterShard
	rate   int
	window time.Duration
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewRateLimiter allows rate requests per caller per window.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter is NewRateLimiter with a custom shard count.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *RateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}
	shards := make([]*rateLimiterShard, numShards)
	for i := range shards {
		shards[i] = &rateLimiterShard{callers: make(map[string]*rateWindow)}
	}

	rl := &RateLimiter{
		shards: shards,
		rate:   rate,
		window: window,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) shard(identifier string) *rateLimiterShard {
	return rl.shards[xxhash.Sum64String(identifier)%uint64(len(rl.shards))]
}

// allow consumes one request for identifier.
func (rl *RateLimiter) allow(identifier string) (allowed bool, remaining int, resetAt time.Time) {
	s := rl.shard(identifier)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := rl.now()
	w, ok := s.callers[identifier]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{remaining: rl.rate, resetAt: now.Add(rl.window)}
		s.callers[identifier] = w
	}
	if w.remaining <= 0 {
		return false, 0, w.resetAt
	}
	w.remaining--
	return true, w.remaining, w.resetAt
}

// RateLimit returns the limiting middleware. It must run after the auth
// middleware for per-client limits to apply.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetAt := rl.allow(callerIdentifier(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			retryAfter := int(math.Ceil(resetAt.Sub(rl.now()).Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewError(dto.ErrCodeRateLimit, message).WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func callerIdentifier(c *gin.Context) string {
	if clientID := GetClientID(c); clientID != "" {
		return "client:" + clientID
	}
	return "ip:" + c.ClientIP()
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.removeExpired()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) removeExpired() {
	now := rl.now()
	for _, s := range rl.shards {
		s.mu.Lock()
		for id, w := range s.callers {
			if !now.Before(w.resetAt) {
				delete(s.callers, id)
			}
		}
		s.mu.Unlock()
	}
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// Size returns the number of tracked callers.
func (rl *RateLimiter) Size() int {
	total := 0
	for _, s := range rl.shards {
		s.mu.Lock()
		total += len(s.callers)
		s.mu.Unlock()
	}
	return total
}
