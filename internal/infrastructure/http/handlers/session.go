package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/api/middleware"
	"github.com/99minutos/identity-system/internal/core/domain"
)

// SessionHandler serves the supplier's view of the verified caller.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type sessionResponse struct {
	AccountID string    `json:"accountId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Current returns the identity carried by the caller's token. It is only
// reachable once the owning service has confirmed the account is active.
func (h *SessionHandler) Current(c echo.Context) error {
	sub, _ := c.Get(middleware.SubjectKey).(string)
	email, _ := c.Get(middleware.EmailKey).(string)
	role, _ := c.Get(middleware.RoleKey).(domain.Role)
	exp, _ := c.Get(middleware.ExpiresAtKey).(time.Time)

	return c.JSON(http.StatusOK, sessionResponse{
		AccountID: sub,
		Email:     email,
		Role:      string(role),
		ExpiresAt: exp,
	})
}
