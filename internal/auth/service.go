package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Service implements the authentication use-cases: registration, login,
// and profile lookup. It holds the read-only signing configuration; there
// is no other shared mutable state, so one Service serves all requests
// concurrently without coordination.
type Service struct {
	users  UserRepository
	secret string
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates an auth service. The secret and TTL come from
// configuration and are immutable for the process lifetime.
func NewService(users UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		ttl:    ttl,
		logger: logger,
	}
}

// Register creates a new account with the user role.
//
// The role is never client-settable: registration always produces RoleUser.
// Duplicate emails surface as ErrEmailExists, raised by the storage
// uniqueness constraint rather than a racy pre-check (two concurrent
// registrations collapse to one winner and one ErrEmailExists).
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies credentials and issues an access token.
//
// Unknown email and wrong password both return ErrInvalidCredentials.
// The hash comparison still runs against a decoy for unknown emails so the
// two failure modes take comparable time.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a comparable amount of work before rejecting.
			_, _ = VerifyPassword(password, decoyHash) //nolint:errcheck // timing equalisation only
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Undecodable stored hash. Reject like a mismatch; log the cause.
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		return "", nil, ErrInvalidCredentials
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := IssueToken(user, s.secret, s.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

// Profile returns the account for the given ID.
// Read-only and idempotent; ErrUserNotFound if the ID is absent.
func (s *Service) Profile(ctx context.Context, id string) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// VerifyToken parses a bearer token and returns the authenticated identity.
// All failure modes wrap ErrTokenInvalid.
func (s *Service) VerifyToken(token string) (Identity, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// decoyHash is a valid Argon2id hash of a random throwaway value, used to
// equalise login timing when the email is unknown.
const decoyHash = "$argon2id$v=19$m=65536,t=3,p=1$c3RvcmVmcm9udC1kZWNveQ$tP3U6W9dXhGcoCrsQIvrhsVsvM4M/v9RVYdB+TA05uQ"
