package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusForbidden, "account is inactive"
	case errors.Is(err, domain.ErrLockedAccount):
		return http.StatusForbidden, "account is locked"
	case errors.Is(err, domain.ErrInvalidIdentity):
		return http.StatusForbidden, "missing or invalid account identity"
	case errors.Is(err, domain.ErrRemoteForbidden):
		return http.StatusForbidden, "account is not allowed to act"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, detail(err, domain.ErrForbidden)
	case errors.Is(err, domain.ErrAlreadyInState):
		return http.StatusConflict, detail(err, domain.ErrAlreadyInState)
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, "account was modified concurrently, retry"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, detail(err, domain.ErrValidation)
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many attempts, try again later"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, detail(err, domain.ErrRemoteUnavailable)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// detail drops operation prefixes added while wrapping, keeping the sentinel
// text and anything appended after it.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i > 0 {
		return msg[i:]
	}
	return msg
}
