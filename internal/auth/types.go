package auth

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// emailPattern is a pragmatic format check: one @, no whitespace, a dot in
// the domain. Real validation happens when mail is delivered; this only
// rejects obvious garbage.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// maxEmailLength is the maximum accepted email address length.
const maxEmailLength = 254

// MinPasswordLength is the minimum accepted plaintext password length.
// Enforced by the HTTP layer before hashing, not by the hasher itself.
const MinPasswordLength = 8

// NormalizeEmail lowercases and trims an email address. All lookups and
// inserts go through this, so "Ana@X.com" and "ana@x.com" are one identity.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks if an email address meets format requirements.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser is a regular registered account. Can mutate only resources
	// it owns.
	RoleUser Role = "user"

	// RoleAdmin has full control: can mutate any resource and read the
	// audit trail. Admin accounts are created by the first-boot seed,
	// never by registration.
	RoleAdmin Role = "admin"
)

// ValidRoles is the closed set of roles. Values outside this set are
// rejected at parse boundaries and never reach the authorisation guard.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole returns true if the role is one of the closed variants.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the request-scoped authenticated caller, derived from a
// verified token and attached to the request context for one request.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The single value (and single message) prevents email enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
	ErrTokenInvalid = errors.New("invalid token")
)
