package ports

import (
	"context"
	"time"
)

// AuthEventType names an authentication or account-administration outcome.
type AuthEventType string

const (
	EventLoginSucceeded        AuthEventType = "login_succeeded"
	EventLoginFailed           AuthEventType = "login_failed"
	EventLoginRejectedInactive AuthEventType = "login_rejected_inactive"
	EventLoginRejectedLocked   AuthEventType = "login_rejected_locked"
	EventAccountLocked         AuthEventType = "account_locked"
	EventAccountUnlocked       AuthEventType = "account_unlocked"
	EventAccountActivated      AuthEventType = "account_activated"
	EventAccountDeactivated    AuthEventType = "account_deactivated"
)

// AuthEvent is one audit-trail entry.
type AuthEvent struct {
	Type      AuthEventType
	AccountID string // empty when the email matched no account
	Email     string
	Actor     string // admin subject for admin transitions
	Timestamp time.Time
}

// AuthEventPublisher accepts audit events without blocking the caller.
type AuthEventPublisher interface {
	Publish(event AuthEvent)
}

// AuthEventRepository stores audit events.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event AuthEvent) error
}
