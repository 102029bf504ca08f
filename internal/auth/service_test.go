package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testService(t *testing.T) (*Service, *SQLiteUserRepository) {
	t.Helper()
	db := testDB(t)
	repo := NewUserRepository(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, "test-secret-key-for-jwt-signing-32b", 15*time.Minute, logger), repo
}

func TestService_Register(t *testing.T) {
	svc, repo := testService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Alice@Example.COM", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() should assign an ID")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalised %q", user.Email, "alice@example.com")
	}
	if user.Role != RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, RoleUser)
	}

	stored, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.PasswordHash == "password123" {
		t.Error("password must never be stored in plaintext")
	}
	ok, err := VerifyPassword("password123", stored.PasswordHash)
	if err != nil || !ok {
		t.Errorf("stored hash should verify original password: ok=%v err=%v", ok, err)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "Imposter", "ALICE@example.com", "different-pass")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Register() error = %v, want ErrEmailExists", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, user, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Error("Login() should return a token")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "alice@example.com")
	}

	// The token round-trips through verification.
	identity, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if identity.ID != user.ID {
		t.Errorf("identity.ID = %q, want %q", identity.ID, user.ID)
	}
	if identity.Role != RoleUser {
		t.Errorf("identity.Role = %q, want %q", identity.Role, RoleUser)
	}
}

func TestService_Login_Rejections(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "password123")
	_, _, errWrong := svc.Login(ctx, "alice@example.com", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Errorf("rejection messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestService_Profile(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@example.com")
	}

	if _, err := svc.Profile(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Profile() error = %v, want ErrUserNotFound", err)
	}
}

func TestService_VerifyToken_Invalid(t *testing.T) {
	svc, _ := testService(t)

	if _, err := svc.VerifyToken("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("VerifyToken() error = %v, want ErrTokenInvalid", err)
	}
}
