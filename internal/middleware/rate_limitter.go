package middleware

import (
	"net/http"
	"sync"
	"time"

	"CallAgent/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

const limiterIdleTTL = 10 * time.Minute

type rateLimiter struct {
	bucket    *cache.Cache
	rate      rate.Limit
	burstSize int
	mutex     sync.Mutex
}

// newRateLimiter keeps one token bucket per client IP. Buckets unused for
// limiterIdleTTL are evicted.
func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    cache.New(limiterIdleTTL, limiterIdleTTL),
		rate:      reqRate,
		burstSize: burstSize,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if v, found := r.bucket.Get(ip); found {
		r.bucket.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(r.rate, r.burstSize)
	r.bucket.SetDefault(ip, limiter)
	return limiter
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}

	return ctx.Next()
}
