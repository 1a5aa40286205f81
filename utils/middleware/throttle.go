package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/labore-tech/instituicoes-api/utils/cache"
	"github.com/labore-tech/instituicoes-api/utils/response"
)

// MutationThrottle limits create/update/delete traffic per client IP
// using Redis. The read path is never throttled here.
type MutationThrottle struct {
	redisCache *cache.RedisCache
	max        int64
	window     time.Duration
}

// NewMutationThrottle creates a throttle allowing max mutations per window.
// A nil cache disables the throttle entirely.
func NewMutationThrottle(redisCache *cache.RedisCache, max int64, window time.Duration) *MutationThrottle {
	return &MutationThrottle{
		redisCache: redisCache,
		max:        max,
		window:     window,
	}
}

// Limit counts mutations in a fixed window and rejects with 429 once the
// budget is spent
func (m *MutationThrottle) Limit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.redisCache == nil {
			return c.Next()
		}

		key := fmt.Sprintf("throttle:writes:%s", c.IP())

		count, err := m.redisCache.Increment(c.UserContext(), key)
		if err != nil {
			// If Redis is down, allow the request.
			// Don't block legitimate users due to cache issues.
			return c.Next()
		}

		if count == 1 {
			m.redisCache.Expire(c.UserContext(), key, m.window)
		}

		if count > m.max {
			ttl, _ := m.redisCache.TTL(c.UserContext(), key)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = int(m.window.Seconds())
			}

			c.Set("Retry-After", strconv.Itoa(retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many write requests. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}
