package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/core/ports"
)

// Context keys populated by Auth.
const (
	SubjectKey   = "subject"
	EmailKey     = "email"
	RoleKey      = "role"
	ExpiresAtKey = "expires_at"
)

// Auth validates the bearer token and injects its claims into context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(SubjectKey, claims.Subject)
			c.Set(EmailKey, claims.Email)
			c.Set(RoleKey, claims.Role)
			c.Set(ExpiresAtKey, claims.ExpiresAt)

			return next(c)
		}
	}
}
