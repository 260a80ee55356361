package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

type accountService struct {
	repo   ports.AccountRepository
	events ports.AuthEventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewAccountService returns the admin-facing AccountService. events may be nil.
func NewAccountService(repo ports.AccountRepository, events ports.AuthEventPublisher, log zerolog.Logger) ports.AccountService {
	if events == nil {
		events = noopPublisher{}
	}
	return &accountService{repo: repo, events: events, log: log, now: time.Now}
}

func (s *accountService) Unlock(ctx context.Context, actor string, id uuid.UUID) error {
	return s.transition(ctx, actor, id, ports.EventAccountUnlocked, func(a *domain.Account) error {
		a.Unlock()
		return nil
	})
}

func (s *accountService) Activate(ctx context.Context, actor string, id uuid.UUID) error {
	return s.transition(ctx, actor, id, ports.EventAccountActivated, (*domain.Account).Activate)
}

func (s *accountService) Deactivate(ctx context.Context, actor string, id uuid.UUID) error {
	return s.transition(ctx, actor, id, ports.EventAccountDeactivated, (*domain.Account).Deactivate)
}

// transition loads, mutates and persists. A rejected mutation returns before
// any write.
func (s *accountService) transition(
	ctx context.Context,
	actor string,
	id uuid.UUID,
	event ports.AuthEventType,
	apply func(*domain.Account) error,
) error {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}
	if err := apply(account); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}

	s.events.Publish(ports.AuthEvent{
		Type:      event,
		AccountID: id.String(),
		Email:     account.Email(),
		Actor:     actor,
		Timestamp: s.now().UTC(),
	})
	s.log.Info().
		Str("account_id", id.String()).
		Str("actor", actor).
		Str("event", string(event)).
		Msg("account state changed")
	return nil
}

func (s *accountService) Status(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *accountService) ListLocked(ctx context.Context) ([]*domain.Account, error) {
	locked := true
	return s.repo.List(ctx, ports.AccountFilter{Locked: &locked})
}

func (s *accountService) ListActive(ctx context.Context) ([]*domain.Account, error) {
	active := true
	return s.repo.List(ctx, ports.AccountFilter{Active: &active})
}

func (s *accountService) ListInactive(ctx context.Context) ([]*domain.Account, error) {
	active := false
	return s.repo.List(ctx, ports.AccountFilter{Active: &active})
}
