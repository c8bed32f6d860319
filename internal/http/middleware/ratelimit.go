// Token-bucket rate limiting.
//
// The limiter keeps one bucket per caller identity: the session identity
// when the gate has resolved it, otherwise the client IP. All of it is
// process-local state, which matches the single-process shape of this
// service; the automation endpoints it protects are expensive (they fan
// out to external services), so the default budget is deliberately small.
//
// Idempotent replays detected by IdempotencyValidator bypass the limiter:
// serving a recorded result costs nothing, so a retry storm of the same
// request cannot exhaust the caller's budget.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc maps a request to the identity owning its token bucket.
type keyFunc func(*gin.Context) string

// bucketTTL bounds how long an idle bucket survives; sweepEvery is the
// lookup count between opportunistic sweeps.
const (
	bucketTTL  = 10 * time.Minute
	sweepEvery = 5000
)

// KeySessionOrIP keys buckets by the identity the session guard stashed
// under "userID", falling back to the client IP for requests that reach
// the limiter before (or without) a resolved session. Prefixes keep the
// two namespaces from colliding.
func KeySessionOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get("userID"); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out per-identity token buckets and evicts idle ones.
// Safe for concurrent use.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	keyFn   keyFunc
	mu      sync.Mutex
	buckets map[string]*bucket

	ttl     time.Duration
	lookups uint64
}

// NewRateLimiter builds a limiter replenishing rps tokens per second with
// the given burst size (coerced to at least 1) per identity.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     bucketTTL,
	}
}

// take returns the bucket for key, creating it when absent. Every
// sweepEvery lookups it first evicts buckets idle for ttl or longer; the
// sweep runs before the fetch so a stale bucket is evicted even when it is
// the one being asked for.
func (rl *RateLimiter) take(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.lookups++
	if rl.lookups >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.ttl {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		lim := b.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether IdempotencyValidator flagged this request as
// a replay, in which case the limiter waves it through.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the Gin middleware. Exhausted budgets answer 429 with the
// standard error envelope and a minimal Retry-After.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		if rl.take(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}
