package domain

import "errors"

// Business-rule errors. Callers wrap them with fmt.Errorf("...: %w") to add
// detail; the HTTP boundary matches them with errors.Is.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrLockedAccount      = errors.New("account is locked")
	ErrAlreadyInState     = errors.New("account already in requested state")
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrVersionConflict    = errors.New("account was modified concurrently")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidIdentity    = errors.New("missing or invalid account identity")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
)

// Cross-service check errors. The remote gate collapses every upstream
// outcome into exactly one of these two.
var (
	ErrRemoteUnavailable = errors.New("unable to validate account status")
	ErrRemoteForbidden   = errors.New("account is not allowed to act")
)
