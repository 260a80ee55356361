package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &body); jerr != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), jerr)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInactiveAccount, http.StatusForbidden},
		{domain.ErrLockedAccount, http.StatusForbidden},
		{domain.ErrInvalidIdentity, http.StatusForbidden},
		{domain.ErrRemoteForbidden, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("account_activated: %w", fmt.Errorf("%w: already active", domain.ErrAlreadyInState)), http.StatusConflict},
		{domain.ErrEmailTaken, http.StatusConflict},
		{fmt.Errorf("login: %w", domain.ErrVersionConflict), http.StatusConflict},
		{fmt.Errorf("%w: invalid email", domain.ErrValidation), http.StatusBadRequest},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrRemoteUnavailable, http.StatusServiceUnavailable},
		{echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestHTTPErrorHandler_Messages(t *testing.T) {
	_, msg := render(t, fmt.Errorf("account_deactivated: %w", fmt.Errorf("%w: already inactive", domain.ErrAlreadyInState)))
	if msg != "account already in requested state: already inactive" {
		t.Fatalf("unexpected message %q", msg)
	}

	upstream := fmt.Errorf("%w: account service responded 500 (Internal Server Error): boom", domain.ErrRemoteUnavailable)
	if _, msg := render(t, upstream); msg != upstream.Error() {
		t.Fatalf("upstream detail must be kept, got %q", msg)
	}

	if _, msg := render(t, errors.New("secret connection string")); msg != "internal server error" {
		t.Fatalf("unexpected errors must not leak, got %q", msg)
	}
}
