// Package auth provides authentication and authorisation for the storefront service.
//
// It implements a 2-tier role model (user → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Short-lived JWT access tokens validated by signature only (no DB hit)
//   - Registration/login/profile use-cases over a SQLite user store
//   - Pure ownership and role predicates for mutation authorisation
//
// Registration always produces the user role; admin accounts exist only via
// the first-boot seed. The users.email UNIQUE constraint is the sole arbiter
// of duplicate registrations - there is no check-then-insert race window.
package auth
