package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-client limits.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiters keeps one limiter per client IP.
type rateLimiters struct {
	mu      sync.Mutex
	config  RateLimiterConfig
	clients map[string]*clientLimiter
}

const limiterIdleTTL = 10 * time.Minute

func (r *rateLimiters) allow(ip string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(r.config.RequestsPerSecond), r.config.Burst)}
		r.clients[ip] = client
	}
	client.lastSeen = now

	// drop idle clients lazily
	if len(r.clients) > 1024 {
		for key, c := range r.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(r.clients, key)
			}
		}
	}
	return client.limiter.AllowN(now, 1)
}

// NewRateLimiterMiddleware rejects clients that exceed the configured rate.
func NewRateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiters := &rateLimiters{config: config, clients: make(map[string]*clientLimiter)}

	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
