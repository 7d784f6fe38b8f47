package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/ports"
	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
)

// LoginRateLimit จำกัดจำนวนครั้งที่ login ต่อ IP+email; Redis ล่มจะปล่อยผ่าน (fail-open)
func LoginRateLimit(limiter ports.LoginLimiter, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		var body struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&body)
		key := c.IP() + "|" + strings.ToLower(strings.TrimSpace(body.Email))

		allowed, retryAfter, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Login rate limiter unavailable", "error", err)
			return c.Next()
		}
		if !allowed {
			if metrics != nil {
				metrics.loginBlocked.Inc()
			}
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			return apperror.RateLimited("Too many login attempts. Try again later.")
		}
		return c.Next()
	}
}
