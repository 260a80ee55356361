package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

// maxLoginWriteAttempts bounds how often a login is replayed after losing a
// versioned write to a concurrent attempt on the same account.
const maxLoginWriteAttempts = 3

// AuthService implements registration and the login protocol.
type AuthService struct {
	repo        ports.AccountRepository
	hasher      ports.PasswordHasher
	issuer      ports.TokenIssuer
	events      ports.AuthEventPublisher
	log         zerolog.Logger
	now         func() time.Time
	allowAdmins bool
}

// AuthOption customizes an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEventPublisher sends login outcomes to the audit trail.
func WithEventPublisher(p ports.AuthEventPublisher) AuthOption {
	return func(s *AuthService) {
		if p != nil {
			s.events = p
		}
	}
}

// WithAdminRegistration lets self-registration request the Admin role.
func WithAdminRegistration(allowed bool) AuthOption {
	return func(s *AuthService) { s.allowAdmins = allowed }
}

func NewAuthService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		events: noopPublisher{},
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckPasswordStrength(in.Password); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin && !s.allowAdmins {
		return nil, fmt.Errorf("%w: admin accounts cannot self-register", domain.ErrForbidden)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	account, err := domain.NewAccount(in.FullName, email, hash, role, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Str("account_id", account.ID().String()).
		Str("role", string(role)).
		Msg("account registered")
	return account, nil
}

// Login authenticates email/password and returns a session token.
//
// Order matters: activity is checked before lockout, lockout (after lazy
// expiry) before the password, and the account is written only as a result
// of this attempt.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	for attempt := 1; ; attempt++ {
		res, err := s.attemptLogin(ctx, normalized, password)
		if !errors.Is(err, domain.ErrVersionConflict) || attempt == maxLoginWriteAttempts {
			return res, err
		}
		s.log.Debug().Str("email", normalized).Int("attempt", attempt).Msg("login write conflict, replaying")
	}
}

func (s *AuthService) attemptLogin(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		s.publish(ports.EventLoginFailed, nil, email)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !account.IsActive() {
		s.publish(ports.EventLoginRejectedInactive, account, email)
		return nil, domain.ErrInactiveAccount
	}

	now := s.now()
	account.CheckAndUnlockIfExpired(now)
	if account.IsLocked() {
		s.publish(ports.EventLoginRejectedLocked, account, email)
		return nil, domain.ErrLockedAccount
	}

	if err := s.hasher.Verify(account.PasswordHash(), password); err != nil {
		locked := account.RegisterFailedLogin(now)
		if err := s.repo.Update(ctx, account); err != nil {
			return nil, fmt.Errorf("login: record failure: %w", err)
		}
		s.publish(ports.EventLoginFailed, account, email)
		if locked {
			s.publish(ports.EventAccountLocked, account, email)
			s.log.Warn().Str("account_id", account.ID().String()).Msg("account locked after repeated failures")
		}
		return nil, domain.ErrInvalidCredentials
	}

	account.ResetFailedLoginAttempts()
	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("login: reset failures: %w", err)
	}

	token, expiresAt, err := s.issuer.Issue(account.ID().String(), account.Email(), account.Role())
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	s.publish(ports.EventLoginSucceeded, account, email)
	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) publish(t ports.AuthEventType, account *domain.Account, email string) {
	ev := ports.AuthEvent{Type: t, Email: email, Timestamp: s.now().UTC()}
	if account != nil {
		ev.AccountID = account.ID().String()
	}
	s.events.Publish(ev)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ports.AuthEvent) {}
