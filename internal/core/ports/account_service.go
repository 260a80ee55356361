package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/identity-system/internal/core/domain"
)

// AccountService exposes admin transitions and read models over accounts.
type AccountService interface {
	Unlock(ctx context.Context, actor string, id uuid.UUID) error
	Activate(ctx context.Context, actor string, id uuid.UUID) error
	Deactivate(ctx context.Context, actor string, id uuid.UUID) error
	Status(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListLocked(ctx context.Context) ([]*domain.Account, error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
	ListInactive(ctx context.Context) ([]*domain.Account, error)
}
