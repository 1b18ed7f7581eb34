package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/futurework-1/NestEgg-Journal/internal/observability/metrics"
)

// Idle client limiters are evicted after limiterTTL.
const (
	limiterTTL     = 10 * time.Minute
	limiterCleanup = 5 * time.Minute
)

// RateLimiter throttles requests per client IP with a token bucket
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients *cache.Cache
	metrics *metrics.HTTPMetrics
}

// NewRateLimiter allows requestsPerSecond sustained and burst at once per IP
func NewRateLimiter(requestsPerSecond float64, burst int, m *metrics.HTTPMetrics) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		clients: cache.New(limiterTTL, limiterCleanup),
		metrics: m,
	}
}

// Allow reports whether a request from ip may proceed now
func (rl *RateLimiter) Allow(ip string) bool {
	var limiter *rate.Limiter
	if v, ok := rl.clients.Get(ip); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		// Add fails when another request created it first
		if err := rl.clients.Add(ip, limiter, cache.DefaultExpiration); err != nil {
			if v, ok := rl.clients.Get(ip); ok {
				limiter = v.(*rate.Limiter)
			}
		}
	}
	// refresh the idle expiry
	rl.clients.SetDefault(ip, limiter)
	return limiter.Allow()
}

// Middleware rejects throttled requests with 429
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rl.Allow(c.RealIP()) {
				return next(c)
			}
			if rl.metrics != nil {
				rl.metrics.RecordRateLimited(c.Path())
			}
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "rate limit exceeded",
			})
		}
	}
}
