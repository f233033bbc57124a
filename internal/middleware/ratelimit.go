// Package middleware provides HTTP middleware functions.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/textpin-back/internal/response"
)

// ErrCodeRateLimited is the error code of a rejected request.
const ErrCodeRateLimited = "RATE_LIMITED"

// KeyFunc returns the key a request is counted under.
type KeyFunc func(c echo.Context) string

// RateLimiter tracks request counts per key in fixed windows.
type RateLimiter struct {
	requests map[string]*requestInfo
	mu       sync.Mutex
	limit    int           // max requests per window
	window   time.Duration // time window
	stop     chan struct{}
	stopOnce sync.Once
}

type requestInfo struct {
	count     int
	resetTime time.Time
}

// NewRateLimiter creates a new RateLimiter and starts its cleanup goroutine.
// Call Stop to end the goroutine.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string]*requestInfo),
		limit:    limit,
		window:   window,
		stop:     make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup periodically removes expired entries.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, info := range rl.requests {
				if now.After(info.resetTime) {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow reports whether a request under key is allowed, and if not, how long until the
// window resets.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	info, exists := rl.requests[key]

	if !exists || now.After(info.resetTime) {
		// New window
		rl.requests[key] = &requestInfo{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true, 0
	}

	if info.count >= rl.limit {
		return false, info.resetTime.Sub(now)
	}

	info.count++
	return true, 0
}

// SessionOrIP counts requests per session cookie, falling back to the client IP.
func SessionOrIP(c echo.Context) string {
	if cookie, err := c.Cookie("session_id"); err == nil && cookie.Value != "" {
		return "session:" + cookie.Value
	}
	return "ip:" + c.RealIP()
}

// RateLimitMiddleware returns a middleware allowing limit requests per window for each
// session, or each IP when the request has no session.
func RateLimitMiddleware(limit int, window time.Duration) echo.MiddlewareFunc {
	return RateLimitMiddlewareWithLimiter(NewRateLimiter(limit, window), SessionOrIP)
}

// RateLimitMiddlewareWithLimiter returns a rate limiting middleware using limiter and key.
func RateLimitMiddlewareWithLimiter(limiter *RateLimiter, key KeyFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, retryAfter := limiter.Allow(key(c))
			if !allowed {
				seconds := int(retryAfter.Seconds() + 0.999)
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.ErrorWithCode(c, http.StatusTooManyRequests, ErrCodeRateLimited,
					"リクエストが多すぎます。しばらく待ってから再試行してください。")
			}

			return next(c)
		}
	}
}
