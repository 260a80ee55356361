package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

// TokenTTL is the fixed lifetime of a session token.
const TokenTTL = 2 * time.Hour

// ErrInvalidToken wraps every verification failure.
var ErrInvalidToken = errors.New("invalid token")

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens. The audience is the
// issuer itself, so any service holding the shared secret can verify.
type JWTService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// JWTOption customizes a JWTService.
type JWTOption func(*JWTService)

// WithTokenClock replaces time.Now for issuance and verification.
func WithTokenClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTService(secret, issuer string, opts ...JWTOption) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if issuer == "" {
		return nil, errors.New("jwt issuer is required")
	}
	s := &JWTService{secret: []byte(secret), issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue implements ports.TokenIssuer.
func (s *JWTService) Issue(subject, email string, role domain.Role) (string, time.Time, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(TokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.issuer},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify implements ports.TokenVerifier.
func (s *JWTService) Verify(raw string) (ports.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return ports.TokenClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ports.TokenClaims{}, ErrInvalidToken
	}

	return ports.TokenClaims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Role:      domain.Role(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
