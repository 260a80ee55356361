package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/api/metrics"
	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

// RemoteActiveAccount asks the owning service whether the caller's account is
// still active and fails closed on anything but a positive answer. It must
// run after Auth. The upstream call is bound to the inbound request context.
func RemoteActiveAccount(checker ports.AccountStatusChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := subjectID(c)
			if err != nil {
				metrics.ActiveAccountChecksTotal.WithLabelValues("remote", "invalid_identity").Inc()
				return err
			}

			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if _, err := checker.CheckActive(c.Request().Context(), id.String(), authz); err != nil {
				result := "unavailable"
				if errors.Is(err, domain.ErrRemoteForbidden) {
					result = "inactive"
				}
				metrics.ActiveAccountChecksTotal.WithLabelValues("remote", result).Inc()
				return err
			}

			metrics.ActiveAccountChecksTotal.WithLabelValues("remote", "allowed").Inc()
			return next(c)
		}
	}
}
