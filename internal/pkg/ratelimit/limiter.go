package ratelimit

import (
	"sync"
	"time"

	"evcharge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const idleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles admin mutations per actor with a token bucket.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry := l.entries[key]
	if entry == nil {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.evictIdle(now)
	return entry.limiter.AllowN(now, 1)
}

// evictIdle drops limiters unused for idleTTL. Caller holds mu.
func (l *Limiter) evictIdle(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > idleTTL {
			delete(l.entries, key)
		}
	}
}

// Middleware rejects mutating requests over budget with 429. Reads pass.
func (l *Limiter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Method() == fiber.MethodGet || ctx.Method() == fiber.MethodHead {
			return ctx.Next()
		}
		key := serverutils.ActorFrom(ctx).Id
		if key == "" {
			key = ctx.IP()
		}
		if !l.Allow(key) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(429, "Too many requests, slow down"))
		}
		return ctx.Next()
	}
}
