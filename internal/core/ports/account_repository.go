package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/99minutos/identity-system/internal/core/domain"
)

// AccountFilter selects accounts by state. Nil fields are not filtered.
type AccountFilter struct {
	Active *bool
	Locked *bool
}

// AccountRepository persists Account aggregates.
type AccountRepository interface {
	// Create inserts a new account. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// FindByEmail expects an already normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update writes the account only if the stored version still equals
	// account.Version(); otherwise it returns domain.ErrVersionConflict.
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, error)
}
