package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"handnotes-backend/internal/shared/metrics"
	"handnotes-backend/internal/shared/server/respond"
)

// Quota is a token bucket refilled at PerMinute tokens per minute, holding at most Burst.
type Quota struct {
	PerMinute int
	Burst     int
}

func (q Quota) rate() float64 { return float64(q.PerMinute) / 60.0 }

func (q Quota) disabled() bool { return q.PerMinute <= 0 || q.Burst <= 0 }

// RateLimiter keeps one bucket per caller. Buckets that have been full for
// idleTTL are dropped on the next Allow.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	idleTTL time.Duration
	swept   time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewRateLimiter returns an empty limiter. A nil now uses time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{buckets: make(map[string]*bucket), now: now, idleTTL: 10 * time.Minute}
}

// Allow takes one token for key and reports how long to wait when none is left.
func (l *RateLimiter) Allow(key string, q Quota) (bool, time.Duration) {
	if l == nil || q.disabled() {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(q.Burst), last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(float64(q.Burst), b.tokens+elapsed*q.rate())
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	wait := (1 - b.tokens) / q.rate()
	return false, time.Duration(math.Ceil(wait*1000)) * time.Millisecond
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.idleTTL {
		return
	}
	l.swept = now
	for k, b := range l.buckets {
		if now.Sub(b.last) >= l.idleTTL {
			delete(l.buckets, k)
		}
	}
}

// RateLimit limits callers of the routes it guards to q. Callers are keyed by
// user id when authenticated, otherwise by client IP. Group separates the
// buckets of different route groups sharing one limiter.
func RateLimit(group string, q Quota, limiter *RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		caller := strings.TrimSpace(UserIDFromContext(c))
		if caller == "" {
			caller = c.ClientIP()
		}
		ok, retryAfter := limiter.Allow(group+"|"+caller, q)
		if ok {
			c.Next()
			return
		}
		metrics.IncRateLimited(group)
		retryMs := max(int(retryAfter/time.Millisecond), 1)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryMs)/1000))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many requests", gin.H{"retryAfterMs": retryMs})
	}
}
