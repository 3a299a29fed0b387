package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"growwithme/internal/infrastructure/metrics"
	"growwithme/internal/usecase"
	"growwithme/pkg/errors"
	"growwithme/pkg/logger"
	"growwithme/pkg/response"
)

// quotaReporter is implemented by limiters that can report bucket levels.
type quotaReporter interface {
	Status(userID, action string) (tokens int, maxTokens int)
}

// RateLimit throttles requests per authenticated user, or per client IP for
// anonymous callers, using the bucket configured for action.
func RateLimit(limiter usecase.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			ok, wait := limiter.Allow(key, action)
			if quota, isReporter := limiter.(quotaReporter); isReporter {
				remaining, limit := quota.Status(key, action)
				c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
				c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
			if !ok {
				logger.Warn("Rate limit hit for %s on %s", key, action)
				metrics.RateLimited.WithLabelValues(action).Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}
			return next(c)
		}
	}
}
