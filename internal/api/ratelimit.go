package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"preview-api/internal"
	"preview-api/internal/auth"
)

const (
	maxLimiters = 10000
	limiterIdle = 30 * time.Minute
)

// RateLimiter throttles each caller separately, keyed by uid or client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	logger   *slog.Logger
}

// NewRateLimiter allows rps requests per second with the given burst. A
// non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxLimiters, nil, limiterIdle),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   logger,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters.Add(key, l)
	return l
}

func callerKey(c *gin.Context) string {
	if p, ok := auth.CurrentPrincipal(c); ok && p.UID != "" {
		return "uid:" + p.UID
	}
	return "ip:" + c.ClientIP()
}

// Middleware rejects callers over their budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}
		key := callerKey(c)
		if !rl.limiter(key).Allow() {
			rl.logger.WarnContext(c.Request.Context(), "rate limit exceeded",
				slog.String("key", key),
				slog.String("path", c.Request.URL.Path))
			internal.Fail(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}
