package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/core/domain"
)

type stubFinder struct {
	account *domain.Account
	err     error
	calls   int
}

func (s *stubFinder) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s.calls++
	return s.account, s.err
}

func newAccount(t *testing.T, active bool) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount("Gate User", "gate@example.com", "hash", domain.RoleUser, time.Now())
	if err != nil {
		t.Fatalf("NewAccount: %v", err)
	}
	if !active {
		if err := a.Deactivate(); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
	}
	return a
}

func runGate(t *testing.T, mw echo.MiddlewareFunc, subject any) (called bool, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	c := e.NewContext(req, httptest.NewRecorder())
	if subject != nil {
		c.Set(SubjectKey, subject)
	}
	err = mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return called, err
}

func TestActiveAccount_ForwardsActive(t *testing.T) {
	a := newAccount(t, true)
	called, err := runGate(t, ActiveAccount(&stubFinder{account: a}), a.ID().String())
	if err != nil || !called {
		t.Fatalf("expected pass-through, called=%v err=%v", called, err)
	}
}

func TestActiveAccount_ForwardsLocked(t *testing.T) {
	a := newAccount(t, true)
	for i := 0; i < domain.MaxFailedLoginAttempts; i++ {
		a.RegisterFailedLogin(time.Now())
	}
	called, err := runGate(t, ActiveAccount(&stubFinder{account: a}), a.ID().String())
	if err != nil || !called {
		t.Fatalf("locked accounts keep existing sessions, called=%v err=%v", called, err)
	}
}

func TestActiveAccount_RejectsInactive(t *testing.T) {
	a := newAccount(t, false)
	called, err := runGate(t, ActiveAccount(&stubFinder{account: a}), a.ID().String())
	if called || !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, called=%v err=%v", called, err)
	}
}

func TestActiveAccount_InvalidIdentity(t *testing.T) {
	for _, sub := range []any{nil, "", "not-a-uuid", uuid.Nil.String(), 42} {
		finder := &stubFinder{}
		called, err := runGate(t, ActiveAccount(finder), sub)
		if called || !errors.Is(err, domain.ErrInvalidIdentity) {
			t.Fatalf("subject %v: expected ErrInvalidIdentity, called=%v err=%v", sub, called, err)
		}
		if finder.calls != 0 {
			t.Fatalf("subject %v: store must not be queried", sub)
		}
	}
}

func TestActiveAccount_NotFoundForwards(t *testing.T) {
	called, err := runGate(t, ActiveAccount(&stubFinder{err: domain.ErrAccountNotFound}), uuid.NewString())
	if err != nil || !called {
		t.Fatalf("expected forward on unknown account, called=%v err=%v", called, err)
	}
}

func TestActiveAccount_StoreFailure(t *testing.T) {
	boom := errors.New("mongo down")
	called, err := runGate(t, ActiveAccount(&stubFinder{err: boom}), uuid.NewString())
	if called || !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, called=%v err=%v", called, err)
	}
}
