package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/api/middleware"
	"github.com/99minutos/identity-system/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - role must be present (presence proves the middleware ran).
//   - subject must be an account id.
func ctxCaller(c echo.Context) (uuid.UUID, domain.Role, error) {
	role, _ := c.Get(middleware.RoleKey).(domain.Role)
	if role == "" {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	sub, _ := c.Get(middleware.SubjectKey).(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", domain.ErrInvalidIdentity
	}

	return id, role, nil
}

// pathAccountID parses the :id route parameter.
func pathAccountID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid account id", domain.ErrValidation)
	}
	return id, nil
}
