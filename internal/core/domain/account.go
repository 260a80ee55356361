package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxFailedLoginAttempts is the number of consecutive failures that locks an account.
	MaxFailedLoginAttempts = 5
	// LockoutDuration is how long a lock lasts before the next login may lift it.
	LockoutDuration = 15 * time.Minute
)

// Account is the identity aggregate. Its state changes only through the
// transition methods below; persistence goes through Snapshot/RestoreAccount.
//
// Lockout expiry is lazy: nothing clears an expired lock in the background.
// The flag stays set in storage until CheckAndUnlockIfExpired runs during the
// next login, or an admin unlocks the account.
type Account struct {
	id                  uuid.UUID
	email               string
	fullName            string
	passwordHash        string
	role                Role
	isActive            bool
	isLocked            bool
	failedLoginAttempts int
	lockoutEnd          *time.Time
	createdAt           time.Time
	version             int64
}

// NewAccount creates an active, unlocked account with no failed attempts.
// email must already be normalized.
func NewAccount(fullName, email, passwordHash string, role Role, now time.Time) (*Account, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || len([]rune(fullName)) > MaxFullNameLength {
		return nil, fmt.Errorf("%w: full name must be 1-%d characters", ErrValidation, MaxFullNameLength)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	return &Account{
		id:           uuid.New(),
		email:        email,
		fullName:     fullName,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
		createdAt:    now.UTC(),
	}, nil
}

func (a *Account) ID() uuid.UUID            { return a.id }
func (a *Account) Email() string            { return a.email }
func (a *Account) FullName() string         { return a.fullName }
func (a *Account) PasswordHash() string     { return a.passwordHash }
func (a *Account) Role() Role               { return a.role }
func (a *Account) IsActive() bool           { return a.isActive }
func (a *Account) IsLocked() bool           { return a.isLocked }
func (a *Account) FailedLoginAttempts() int { return a.failedLoginAttempts }
func (a *Account) CreatedAt() time.Time     { return a.createdAt }
func (a *Account) Version() int64           { return a.version }

// LockoutEnd returns the lock expiry, or false when the account is unlocked.
func (a *Account) LockoutEnd() (time.Time, bool) {
	if a.lockoutEnd == nil {
		return time.Time{}, false
	}
	return *a.lockoutEnd, true
}

// RegisterFailedLogin counts a failed attempt and locks the account once the
// threshold is reached. It reports whether this call caused the lock.
func (a *Account) RegisterFailedLogin(now time.Time) bool {
	a.failedLoginAttempts++
	if a.failedLoginAttempts < MaxFailedLoginAttempts || a.isLocked {
		return false
	}
	end := now.UTC().Add(LockoutDuration)
	a.isLocked = true
	a.lockoutEnd = &end
	return true
}

// CheckAndUnlockIfExpired lifts a lock whose end time has passed.
// It reports whether the account was unlocked.
func (a *Account) CheckAndUnlockIfExpired(now time.Time) bool {
	if !a.isLocked || a.lockoutEnd == nil || !a.lockoutEnd.Before(now) {
		return false
	}
	a.Unlock()
	return true
}

// Unlock clears the lock, its end time and the failure counter together.
func (a *Account) Unlock() {
	a.isLocked = false
	a.lockoutEnd = nil
	a.failedLoginAttempts = 0
}

// ResetFailedLoginAttempts zeroes the counter without touching the lock flag.
func (a *Account) ResetFailedLoginAttempts() {
	a.failedLoginAttempts = 0
}

func (a *Account) Activate() error {
	if a.isActive {
		return fmt.Errorf("%w: already active", ErrAlreadyInState)
	}
	a.isActive = true
	return nil
}

func (a *Account) Deactivate() error {
	if !a.isActive {
		return fmt.Errorf("%w: already inactive", ErrAlreadyInState)
	}
	a.isActive = false
	return nil
}

// AccountSnapshot is the flat persistence view of an Account.
type AccountSnapshot struct {
	ID                  uuid.UUID
	Email               string
	FullName            string
	PasswordHash        string
	Role                Role
	IsActive            bool
	IsLocked            bool
	FailedLoginAttempts int
	LockoutEnd          *time.Time
	CreatedAt           time.Time
	Version             int64
}

// Snapshot copies the aggregate state for storage adapters.
func (a *Account) Snapshot() AccountSnapshot {
	s := AccountSnapshot{
		ID:                  a.id,
		Email:               a.email,
		FullName:            a.fullName,
		PasswordHash:        a.passwordHash,
		Role:                a.role,
		IsActive:            a.isActive,
		IsLocked:            a.isLocked,
		FailedLoginAttempts: a.failedLoginAttempts,
		CreatedAt:           a.createdAt,
		Version:             a.version,
	}
	if a.lockoutEnd != nil {
		end := *a.lockoutEnd
		s.LockoutEnd = &end
	}
	return s
}

// RestoreAccount rebuilds an aggregate from storage. A lockout end without
// the lock flag is dropped and a negative counter is clamped to zero.
func RestoreAccount(s AccountSnapshot) *Account {
	a := &Account{
		id:                  s.ID,
		email:               s.Email,
		fullName:            s.FullName,
		passwordHash:        s.PasswordHash,
		role:                s.Role,
		isActive:            s.IsActive,
		isLocked:            s.IsLocked,
		failedLoginAttempts: s.FailedLoginAttempts,
		createdAt:           s.CreatedAt,
		version:             s.Version,
	}
	if a.failedLoginAttempts < 0 {
		a.failedLoginAttempts = 0
	}
	if s.IsLocked && s.LockoutEnd != nil {
		end := s.LockoutEnd.UTC()
		a.lockoutEnd = &end
	}
	return a
}
