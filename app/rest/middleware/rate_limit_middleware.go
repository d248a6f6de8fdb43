package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const visitorIdleEviction = 10 * time.Minute

// RateLimiter applies per-IP token buckets, stricter on the auth routes.
type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter and starts its eviction loop.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
	}
	go rl.cleanupVisitors()
	return rl
}

// RateLimit returns the middleware.
func (rl *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			class := classFor(c.Request().URL.Path)

			if !rl.allow(ip+"|"+class.name, class.limit, class.burst) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}

// limitClass pairs a visitor-key suffix with the limits it implies, so a
// bucket is always shared only by paths with identical limits.
type limitClass struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	strictClass  = limitClass{name: "strict", limit: rate.Every(time.Second), burst: 10}
	defaultClass = limitClass{name: "default", limit: rate.Every(50 * time.Millisecond), burst: 40}
)

func classFor(path string) limitClass {
	if strings.Contains(path, "/auth/login") || strings.Contains(path, "/auth/callback") {
		return strictClass
	}
	return defaultClass
}

func (rl *RateLimiter) allow(key string, limit rate.Limit, burst int) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)

		rl.mutex.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorIdleEviction {
				delete(rl.visitors, key)
			}
		}
		rl.mutex.Unlock()
	}
}
