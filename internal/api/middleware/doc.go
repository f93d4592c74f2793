// Package middleware provides the HTTP middleware of the desktop API.
//
// Middleware stack includes:
//   - CORS: Cross-origin resource sharing with configurable origins
//   - RateLimit: Per-IP token bucket rate limiting
//   - Recovery: Panic recovery with a JSON 500
//   - Logger: Request logging through zap
//
// Rate Limiting:
//   - Per-IP tracking; limiters idle for ten minutes are evicted
//   - Token bucket algorithm (golang.org/x/time/rate)
//   - Global rate limiting option
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.CORSFromOrigins(cfg.CORS.AllowedOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
