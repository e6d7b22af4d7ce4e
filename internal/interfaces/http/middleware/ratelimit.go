package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perSecond requests per client with bursts up to burst.
// Buckets idle for a minute are evicted.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = max(1, int(math.Ceil(perSecond)))
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		idleTTL: time.Minute,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.clients {
		if now.Sub(b.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimiter) bucket(key string) *clientBucket {
	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = b
	}
	b.lastSeen = time.Now()
	return b
}

// Allow takes one token from key's bucket
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.bucket(key).limiter.Allow()
}

// Remaining returns the whole tokens left in key's bucket
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.clients[key]
	if !ok {
		return rl.burst
	}
	return max(0, int(b.limiter.Tokens()))
}

// Close stops the eviction loop
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// RateLimit throttles requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string { return c.ClientIP() })
}

// RateLimitByKey throttles requests per key returned by keyFunc
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				shared.CodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}
