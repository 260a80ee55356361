package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

func TestAccountService_ActivateDeactivate(t *testing.T) {
	f := newAuthFixture(t)
	a := f.register(t, "kim@example.com")
	events := &recordingPublisher{}
	svc := NewAccountService(f.repo, events, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Deactivate(ctx, "admin-1", a.ID()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if s := f.repo.snapshot(t, "kim@example.com"); s.IsActive {
		t.Fatalf("expected inactive after deactivate")
	}
	if !events.has(ports.EventAccountDeactivated) {
		t.Fatalf("expected account_deactivated event")
	}

	if err := svc.Activate(ctx, "admin-1", a.ID()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if s := f.repo.snapshot(t, "kim@example.com"); !s.IsActive {
		t.Fatalf("expected active after activate")
	}
}

func TestAccountService_AlreadyInStateDoesNotWrite(t *testing.T) {
	f := newAuthFixture(t)
	a := f.register(t, "lee@example.com")
	svc := NewAccountService(f.repo, nil, zerolog.Nop())
	ctx := context.Background()

	before := f.repo.updates
	if err := svc.Activate(ctx, "admin-1", a.ID()); !errors.Is(err, domain.ErrAlreadyInState) {
		t.Fatalf("expected ErrAlreadyInState on active account, got %v", err)
	}
	if f.repo.updates != before {
		t.Fatalf("activate misuse must not persist")
	}

	if err := svc.Deactivate(ctx, "admin-1", a.ID()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	before = f.repo.updates
	if err := svc.Deactivate(ctx, "admin-1", a.ID()); !errors.Is(err, domain.ErrAlreadyInState) {
		t.Fatalf("expected ErrAlreadyInState on inactive account, got %v", err)
	}
	if f.repo.updates != before {
		t.Fatalf("deactivate misuse must not persist")
	}
}

func TestAccountService_UnlockClearsLockout(t *testing.T) {
	f := newAuthFixture(t)
	a := f.register(t, "max@example.com")
	for i := 0; i < domain.MaxFailedLoginAttempts; i++ {
		_, _ = f.svc.Login(context.Background(), "max@example.com", "wrong")
	}
	svc := NewAccountService(f.repo, nil, zerolog.Nop())

	locked, err := svc.ListLocked(context.Background())
	if err != nil || len(locked) != 1 {
		t.Fatalf("expected one locked account, got %d (%v)", len(locked), err)
	}

	if err := svc.Unlock(context.Background(), "admin-1", a.ID()); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	s := f.repo.snapshot(t, "max@example.com")
	if s.IsLocked || s.LockoutEnd != nil || s.FailedLoginAttempts != 0 {
		t.Fatalf("expected fully unlocked, got %+v", s)
	}

	// Unlock takes effect before lockoutEnd.
	if _, err := f.svc.Login(context.Background(), "max@example.com", strongPassword); err != nil {
		t.Fatalf("login after unlock: %v", err)
	}
}

func TestAccountService_NotFound(t *testing.T) {
	svc := NewAccountService(newStubAccountRepo(), nil, zerolog.Nop())

	if err := svc.Unlock(context.Background(), "admin-1", uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.Status(context.Background(), uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_ListByActivity(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "one@example.com")
	b := f.register(t, "two@example.com")
	svc := NewAccountService(f.repo, nil, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Deactivate(ctx, "admin-1", b.ID()); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil || len(active) != 1 || active[0].Email() != "one@example.com" {
		t.Fatalf("unexpected active list: %v (%v)", active, err)
	}
	inactive, err := svc.ListInactive(ctx)
	if err != nil || len(inactive) != 1 || inactive[0].Email() != "two@example.com" {
		t.Fatalf("unexpected inactive list: %v (%v)", inactive, err)
	}
}
