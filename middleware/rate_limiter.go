package middleware

import (
	"sync"
	"time"

	"github.com/anjiri1684/mindcare/utils"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    time.Duration
	burst    int
	idle     time.Duration
	swept    time.Time
	log      *zap.Logger
}

// NewRateLimiter allows perMinute requests per IP with an equal burst.
func NewRateLimiter(perMinute int, log *zap.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		idle:     10 * time.Minute,
		log:      log,
	}
}

func (s *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Idle buckets are dropped at most once per idle period.
	if now.Sub(s.swept) > s.idle {
		for key, e := range s.limiters {
			if now.Sub(e.lastSeen) > s.idle {
				delete(s.limiters, key)
			}
		}
		s.swept = now
	}
	e, ok := s.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(s.every), s.burst)}
		s.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (s *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if !s.get(ip, time.Now()).Allow() {
			s.log.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Path()))
			return respond(c, utils.NewError(utils.KindRateLimited, "Rate limit exceeded. Try again later."))
		}
		return c.Next()
	}
}
