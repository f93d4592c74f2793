package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientTTL is how long an idle client's limiter is kept
const clientTTL = 10 * time.Minute

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiters tracks one token bucket per client IP
type limiters struct {
	cfg RateLimitConfig
	now func() time.Time

	mu       sync.Mutex
	clients  map[string]*client
	lastScan time.Time
}

func newLimiters(cfg RateLimitConfig, now func() time.Time) *limiters {
	return &limiters{
		cfg:      cfg,
		now:      now,
		clients:  make(map[string]*client),
		lastScan: now(),
	}
}

func (l *limiters) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	if now.Sub(l.lastScan) > clientTTL {
		l.evict(now)
	}
	limiter := c.limiter
	l.mu.Unlock()

	return limiter.AllowN(now, 1)
}

// evict drops clients idle for longer than clientTTL. Caller holds mu.
func (l *limiters) evict(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > clientTTL {
			delete(l.clients, ip)
		}
	}
	l.lastScan = now
}

func (l *limiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit creates a per-IP rate limiting middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	return rateLimit(newLimiters(cfg, time.Now))
}

func rateLimit(l *limiters) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
