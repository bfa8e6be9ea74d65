package middleware

import (
	"net/http"
	"sync"
	"time"

	"coursehub/i18n"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds one token bucket per client IP.
type rateLimiterStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	perMin   int
	idle     time.Duration

	// idle clients are swept at most once per sweepEvery.
	sweepEvery time.Duration
	lastSweep  time.Time
}

func newRateLimiterStore(perMin int) *rateLimiterStore {
	if perMin <= 0 {
		perMin = 200
	}
	return &rateLimiterStore{
		visitors:   make(map[string]*visitor),
		perMin:     perMin,
		idle:       10 * time.Minute,
		sweepEvery: time.Minute,
	}
}

// getLimiter returns the limiter for ip, creating one if needed, and evicts idle clients.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.sweepEvery {
		for key, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.idle {
				delete(s.visitors, key)
			}
		}
		s.lastSweep = now
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// RateLimitMiddleware limits requests per IP address to perMin per minute.
func RateLimitMiddleware(perMin int) gin.HandlerFunc {
	store := newRateLimiterStore(perMin)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip, time.Now()).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.Header("Retry-After", "60")
			utils.JSONError(c, http.StatusTooManyRequests, i18n.T(c.GetString(CtxLocale), i18n.MsgRateLimited), "")
			return
		}
		c.Next()
	}
}
