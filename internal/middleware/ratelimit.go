package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guestdesk/crm-backend/internal/config"
	"github.com/guestdesk/crm-backend/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	visitorSweepInterval = 3 * time.Minute
	visitorIdleExpiry    = 5 * time.Minute
)

// visitor tracks one client IP's token bucket and when it was last used,
// so idle entries can be swept.
type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// RateLimiter throttles requests per client IP. The credential endpoints
// sit behind one so password guessing cannot run at line speed.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

// NewRateLimiter builds a limiter from server config. Zero or negative
// values fall back to the defaults so a partial config file cannot
// accidentally disable throttling.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = config.DefaultAuthRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = config.DefaultAuthBurst
	}
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) visitorFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.seen = time.Now()
	return v.limiter
}

// sweep drops visitors that have been idle past the expiry.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(visitorSweepInterval)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.seen) > visitorIdleExpiry {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware enforces the per-IP limit, answering 429 when exhausted.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.visitorFor(ip).Allow() {
			logger.Warn().
				Str("ip", ip).
				Str("path", c.FullPath()).
				Msg("rate limit exceeded")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
