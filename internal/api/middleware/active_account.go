package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/api/metrics"
	"github.com/99minutos/identity-system/internal/core/domain"
)

// AccountFinder is the lookup the local gate needs from the account store.
type AccountFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// ActiveAccount rejects authenticated callers whose account has been
// deactivated since the token was issued. It must run after Auth.
//
// An account that no longer exists is let through; the handler decides.
// Lock state is not checked here: lockout only blocks new logins.
func ActiveAccount(accounts AccountFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := subjectID(c)
			if err != nil {
				metrics.ActiveAccountChecksTotal.WithLabelValues("local", "invalid_identity").Inc()
				return err
			}

			account, err := accounts.FindByID(c.Request().Context(), id)
			switch {
			case errors.Is(err, domain.ErrAccountNotFound):
				metrics.ActiveAccountChecksTotal.WithLabelValues("local", "not_found").Inc()
				return next(c)
			case err != nil:
				metrics.ActiveAccountChecksTotal.WithLabelValues("local", "error").Inc()
				return err
			case !account.IsActive():
				metrics.ActiveAccountChecksTotal.WithLabelValues("local", "inactive").Inc()
				return domain.ErrInactiveAccount
			}

			metrics.ActiveAccountChecksTotal.WithLabelValues("local", "allowed").Inc()
			return next(c)
		}
	}
}

// subjectID returns the verified token subject as an account id.
func subjectID(c echo.Context) (uuid.UUID, error) {
	sub, _ := c.Get(SubjectKey).(string)
	if sub == "" {
		return uuid.Nil, domain.ErrInvalidIdentity
	}
	id, err := uuid.Parse(sub)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, domain.ErrInvalidIdentity
	}
	return id, nil
}
