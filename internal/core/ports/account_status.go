package ports

import "context"

// AccountStatus is the part of the owning service's status response the
// remote gate relies on.
type AccountStatus struct {
	ID       string
	IsActive bool
	IsLocked bool
}

// AccountStatusChecker asks the owning service whether an account may act.
// Implementations return domain.ErrRemoteUnavailable or
// domain.ErrRemoteForbidden for every outcome other than an active account.
type AccountStatusChecker interface {
	CheckActive(ctx context.Context, accountID, authorization string) (*AccountStatus, error)
}
