package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/api/metrics"
	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

// Throttle limits attempts per client IP. Limiter failures let the request
// through; account lockout still applies.
func Throttle(limiter ports.AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("attempt limiter unavailable")
				return next(c)
			}
			if !ok {
				metrics.ThrottleRejectionsTotal.Inc()
				return domain.ErrTooManyAttempts
			}
			return next(c)
		}
	}
}
