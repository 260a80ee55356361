package handler

import (
	"time"

	"github.com/99minutos/identity-system/internal/core/domain"
)

type registerRequest struct {
	FullName string `json:"fullName" validate:"required,max=150"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	Role     string `json:"role"     validate:"omitempty,oneof=User Admin user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// accountResponse is the public view of an account. It never carries the
// password hash.
type accountResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	IsLocked  bool      `json:"isLocked"`
	CreatedAt time.Time `json:"createdAt"`
}

type lockedAccountResponse struct {
	accountResponse
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LockoutEnd          *time.Time `json:"lockoutEnd"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID().String(),
		FullName:  a.FullName(),
		Email:     a.Email(),
		Role:      string(a.Role()),
		IsActive:  a.IsActive(),
		IsLocked:  a.IsLocked(),
		CreatedAt: a.CreatedAt(),
	}
}

func toLockedAccountResponse(a *domain.Account) lockedAccountResponse {
	out := lockedAccountResponse{
		accountResponse:     toAccountResponse(a),
		FailedLoginAttempts: a.FailedLoginAttempts(),
	}
	if end, ok := a.LockoutEnd(); ok {
		out.LockoutEnd = &end
	}
	return out
}

func toAccountList(accounts []*domain.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}
