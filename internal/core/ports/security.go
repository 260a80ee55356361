package ports

import (
	"time"

	"github.com/99minutos/identity-system/internal/core/domain"
)

// PasswordHasher performs one-way salted hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns nil when password matches hash.
	Verify(hash, password string) error
}

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(subject, email string, role domain.Role) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks signature, algorithm, expiry, issuer and audience.
type TokenVerifier interface {
	Verify(raw string) (TokenClaims, error)
}
