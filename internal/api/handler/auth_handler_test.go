package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.FullName != "Alice Doe" || in.Email != "alice@example.com" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return domain.NewAccount(in.FullName, in.Email, "hash", domain.RoleUser, time.Now())
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/register", `{"fullName":"Alice Doe","email":"alice@example.com","password":"Str0ng!Pass"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["role"] != "User" || resp["isActive"] != true || resp["isLocked"] != false {
		t.Fatalf("unexpected account payload: %+v", resp)
	}
	if _, leaked := resp["passwordHash"]; leaked {
		t.Fatalf("password hash must not be exposed")
	}
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/register", `{"fullName":"Bob","email":"bob@example.com","password":"password"}`)
	err := handler.Register(c)
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "password") {
		t.Fatalf("expected password validation error, got %v", err)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/register", `{"fullName":"Bob","email":"bob@example.com","password":"Str0ng!Pass"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := postJSON(e, "/auth/register", "not-json")
	err := handler.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	exp := time.Date(2026, 1, 1, 11, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.LoginResult{Token: "token123", ExpiresAt: exp}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/login", `{"email":"alice@example.com","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["expiresAt"] != "2026-01-01T11:00:00Z" {
		t.Fatalf("unexpected login payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Errors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrLockedAccount, domain.ErrInactiveAccount} {
		e := newEcho()
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
				return nil, want
			},
		}
		handler := NewAuthHandler(stub)

		c, _ := postJSON(e, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
		if err := handler.Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/login", `{"email":"alice@example.com"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
