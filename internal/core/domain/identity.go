package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Role is the authorization level carried by an account and its tokens.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole maps a case-insensitive role name to a Role.
// An empty name defaults to RoleUser.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("%w: role must be %q or %q", ErrValidation, RoleUser, RoleAdmin)
	}
}

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8
	// MaxFullNameLength bounds the display name.
	MaxFullNameLength = 150
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an email address so that lookups are
// case-insensitive.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return email, nil
}

// CheckPasswordStrength requires at least MinPasswordLength characters with an
// upper-case letter, a lower-case letter, a digit and a special character.
func CheckPasswordStrength(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if len([]rune(password)) < MinPasswordLength || !upper || !lower || !digit || !special {
		return fmt.Errorf("%w: password must be at least %d characters and include uppercase, lowercase, number, and special character",
			ErrValidation, MinPasswordLength)
	}
	return nil
}
