package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window per-IP limiter. Each tier of the API gets its
// own instance (general, auth, sensitive).
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	message string
}

type bucket struct {
	start time.Time
	count int
}

func NewRateLimiter(limit int, window time.Duration, message string) *RateLimiter {
	r := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
		message: message,
	}
	go r.cleanup()
	return r
}

// Allow reports whether key may proceed and returns the remaining quota.
func (r *RateLimiter) Allow(key string) (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	b := r.buckets[key]
	if b == nil || now.Sub(b.start) >= r.window {
		b = &bucket{start: now}
		r.buckets[key] = b
	}
	if b.count >= r.limit {
		return false, 0
	}
	b.count++
	return true, r.limit - b.count
}

func (r *RateLimiter) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		for k, b := range r.buckets {
			if time.Since(b.start) >= r.window {
				delete(r.buckets, k)
			}
		}
		r.mu.Unlock()
	}
}

// RateLimit limits by client IP and sets RateLimit-* response headers.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, remaining := limiter.Allow(c.ClientIP())
		c.Header("RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": limiter.message})
			return
		}
		c.Next()
	}
}
