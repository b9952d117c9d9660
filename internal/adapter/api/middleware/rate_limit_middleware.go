package middleware

import (
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/infrastructure/ratelimit"
	"ratpatrol/pkg/errors"
	"ratpatrol/pkg/response"
)

// RateLimit throttles action per caller. It must run after Identify.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserID(c)
			if key == "" {
				key = c.RealIP()
			}

			if ok, retryAfter := limiter.Allow(key, action); !ok {
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", retryAfter))
			}
			return next(c)
		}
	}
}
