package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
	"github.com/99minutos/identity-system/internal/infrastructure/accountsvc"
)

type stubChecker struct {
	err       error
	gotID     string
	gotHeader string
}

func (s *stubChecker) CheckActive(ctx context.Context, id, authz string) (*ports.AccountStatus, error) {
	s.gotID, s.gotHeader = id, authz
	if s.err != nil {
		return nil, s.err
	}
	return &ports.AccountStatus{ID: id, IsActive: true}, nil
}

func TestRemoteActiveAccount_Outcomes(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		forward bool
	}{
		{name: "active", forward: true},
		{name: "inactive", err: domain.ErrRemoteForbidden},
		{name: "unavailable", err: domain.ErrRemoteUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := uuid.NewString()
			checker := &stubChecker{err: tc.err}
			called, err := runGate(t, RemoteActiveAccount(checker), id)

			if called != tc.forward || !errors.Is(err, tc.err) {
				t.Fatalf("called=%v err=%v", called, err)
			}
			if checker.gotID != id || checker.gotHeader != "Bearer token" {
				t.Fatalf("checker got id=%q header=%q", checker.gotID, checker.gotHeader)
			}
		})
	}
}

func TestRemoteActiveAccount_InvalidIdentityFailsClosed(t *testing.T) {
	checker := &stubChecker{}
	called, err := runGate(t, RemoteActiveAccount(checker), "nope")
	if called || !errors.Is(err, domain.ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, called=%v err=%v", called, err)
	}
	if checker.gotID != "" {
		t.Fatalf("owning service must not be called")
	}
}

// End to end with the real client: the owning service hangs past the timeout.
func TestRemoteActiveAccount_UpstreamTimeout(t *testing.T) {
	release := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer upstream.Close()
	defer close(release)

	client := accountsvc.NewClient(upstream.URL, 50*time.Millisecond, zerolog.Nop())
	called, err := runGate(t, RemoteActiveAccount(client), uuid.NewString())
	if called || !errors.Is(err, domain.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, called=%v err=%v", called, err)
	}
}

func TestRemoteActiveAccount_UpstreamInactive(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isActive":false}`))
	}))
	defer upstream.Close()

	client := accountsvc.NewClient(upstream.URL, time.Second, zerolog.Nop())
	called, err := runGate(t, RemoteActiveAccount(client), uuid.NewString())
	if called || !errors.Is(err, domain.ErrRemoteForbidden) {
		t.Fatalf("expected ErrRemoteForbidden, called=%v err=%v", called, err)
	}
}
