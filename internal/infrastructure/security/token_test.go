package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/identity-system/internal/core/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	svc, err := NewJWTService("super-secret", "identity-system", WithTokenClock(func() time.Time { return now }))
	require.NoError(t, err)

	token, expiresAt, err := svc.Issue("acc-x", "x@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, now.Add(TokenTTL).Equal(expiresAt))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-x", claims.Subject)
	assert.Equal(t, "x@example.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, expiresAt.Equal(claims.ExpiresAt))
}

func TestJWTService_RejectsAfterTwoHours(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc, err := NewJWTService("super-secret", "identity-system", WithTokenClock(func() time.Time { return clock() }))
	require.NoError(t, err)

	token, _, err := svc.Issue("acc-x", "x@example.com", domain.RoleUser)
	require.NoError(t, err)

	clock = func() time.Time { return now.Add(TokenTTL - time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err, "token must still be valid inside its window")

	clock = func() time.Time { return now.Add(TokenTTL + time.Second) }
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService("super-secret", "identity-system")
	require.NoError(t, err)

	other, err := NewJWTService("another-secret", "identity-system")
	require.NoError(t, err)
	foreign, _, err := other.Issue("acc-x", "x@example.com", domain.RoleUser)
	require.NoError(t, err)
	_, err = svc.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong signature")

	otherIssuer, err := NewJWTService("super-secret", "someone-else")
	require.NoError(t, err)
	wrongIss, _, err := otherIssuer.Issue("acc-x", "x@example.com", domain.RoleUser)
	require.NoError(t, err)
	_, err = svc.Verify(wrongIss)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong issuer/audience")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "acc-x"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestNewJWTService_RequiresSecretAndIssuer(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService("", "identity-system")
	assert.Error(t, err)
	_, err = NewJWTService("secret", "")
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)
	hash, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hash)
	assert.NoError(t, h.Verify(hash, "Str0ng!Pass"))
	assert.Error(t, h.Verify(hash, "wrong"))
}
