package ports

import (
	"context"
	"time"

	"github.com/99minutos/identity-system/internal/core/domain"
)

// RegisterInput carries self-registration data.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// LoginResult is returned after a successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
