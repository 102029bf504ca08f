package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
)

// ticketTTL is how long a WebSocket ticket is valid.
const ticketTTL = 60 * time.Second

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the data payload for a successful login. The token is
// self-contained; its expiry travels in the exp claim, not beside it.
type loginResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// handleRegister creates a new account with the user role.
//
// The request never carries a role; every registration produces a standard
// user. Validation failures and duplicate emails both answer 400, but only
// the duplicate case reveals that the email is taken.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if msg, ok := validateRegistration(req); !ok {
		writeBadRequest(w, msg)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			writeBadRequest(w, "email already registered")
			return
		}
		s.logger.Error("registration failed", "error", err)
		writeInternalError(w)
		return
	}

	s.recordAudit(r.Context(), audit.ActionRegister, audit.EntityUser, user.ID, user.ID, nil)

	writeSuccess(w, http.StatusCreated, user)
}

// validateRegistration checks the registration payload before it reaches
// the auth service. Returns a client-facing message when invalid.
func validateRegistration(req registerRequest) (string, bool) {
	if req.Name == "" {
		return "name is required", false
	}
	if !auth.IsValidEmail(req.Email) {
		return "a valid email is required", false
	}
	if len(req.Password) < auth.MinPasswordLength {
		return fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength), false
	}
	return "", true
}

// handleLogin authenticates a user and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w)
		return
	}

	s.recordAudit(r.Context(), audit.ActionLogin, audit.EntityUser, user.ID, user.ID, nil)

	writeSuccess(w, http.StatusOK, loginResponse{
		Token: token,
		User:  user,
	})
}

// handleProfile returns the authenticated user's account.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	user, err := s.auth.Profile(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Valid token whose subject row is gone.
			writeNotFound(w, "user not found")
			return
		}
		s.logger.Error("profile lookup failed", "error", err)
		writeInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// recordAudit writes an audit entry, logging rather than failing the
// request if the write does not succeed.
func (s *Server) recordAudit(ctx context.Context, action, entityType, entityID, userID string, details map[string]any) {
	if s.audit == nil {
		return
	}
	entry := &audit.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Details:    details,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed", "action", action, "entity", entityType, "error", err)
	}
}

// ticketStore holds pending WebSocket authentication tickets.
// Tickets are single-use, expire after ticketTTL, and carry the identity
// of the user who requested them.
type ticketStore struct {
	tickets map[string]ticketEntry
	mu      sync.Mutex
}

type ticketEntry struct {
	identity  auth.Identity
	expiresAt time.Time
}

func newTicketStore() *ticketStore {
	return &ticketStore{tickets: make(map[string]ticketEntry)}
}

// issue creates and stores a new ticket for the given identity.
func (ts *ticketStore) issue(identity auth.Identity) string {
	ticket := generateTicket()
	ts.mu.Lock()
	ts.tickets[ticket] = ticketEntry{
		identity:  identity,
		expiresAt: time.Now().Add(ticketTTL),
	}
	ts.mu.Unlock()
	return ticket
}

// consume validates a ticket and removes it (single-use).
func (ts *ticketStore) consume(ticket string) (auth.Identity, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	entry, ok := ts.tickets[ticket]
	if !ok {
		return auth.Identity{}, false
	}

	delete(ts.tickets, ticket)

	if time.Now().After(entry.expiresAt) {
		return auth.Identity{}, false
	}
	return entry.identity, true
}

// clean removes expired tickets from the store.
func (ts *ticketStore) clean() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	for ticket, entry := range ts.tickets {
		if now.After(entry.expiresAt) {
			delete(ts.tickets, ticket)
		}
	}
}

// cleanLoop runs clean periodically until the context is cancelled.
func (ts *ticketStore) cleanLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ts.clean()
		}
	}
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to authenticate the WebSocket connection
// without exposing the JWT in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	ticket := s.tickets.issue(identity)

	writeSuccess(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_in": int(ticketTTL.Seconds()),
	})
}

// ticketBytes is the number of random bytes used for WebSocket tickets.
const ticketBytes = 32

// generateTicket creates a cryptographically random ticket string.
func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}
