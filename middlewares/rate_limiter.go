package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	r       rate.Limit
	burst   int
}

type clientLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		r:       rate.Limit(rps),
		burst:   burst,
	}
	// drop buckets for IPs not seen in a while
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, cl := range rl.clients {
				if time.Since(cl.seen) > 3*time.Minute {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if cl, ok := rl.clients[ip]; ok {
		cl.seen = time.Now()
		return cl.lim
	}
	lim := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &clientLimiter{lim: lim, seen: time.Now()}
	return lim
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  false,
				"message": "Too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// NewStrictRateLimiter is the tighter variant for login/register.
func NewStrictRateLimiter() gin.HandlerFunc {
	rl := NewRateLimiter(5.0/60.0, 5) // 5 attempts per minute per IP
	return rl.RateLimit()
}
