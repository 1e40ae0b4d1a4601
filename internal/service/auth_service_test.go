package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mineart/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// testCredentialStore hashes the given password at the bcrypt cost the
// production hash uses and strips the prefix the way the env config does.
func testCredentialStore(t *testing.T, username, password string) CredentialStore {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	return NewEnvCredentialStore(config.AdminConfig{
		UserID:       "admin-1",
		Username:     username,
		PasswordHash: strings.TrimPrefix(string(hash), "$2a$12$"),
	})
}

func TestLogin(t *testing.T) {
	store := testCredentialStore(t, "admin", "marble-and-stone")
	svc := NewAuthService(store, "test-secret", 12)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(ctx, "admin", "marble-and-stone")
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if token == "" {
			t.Fatal("Login returned no token")
		}

		claims, err := svc.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken rejected a fresh token: %v", err)
		}
		if claims.UserID != "admin-1" {
			t.Errorf("user id = %q, want admin-1", claims.UserID)
		}
		if claims.Role != "admin" {
			t.Errorf("role = %q, want admin", claims.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "admin", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(ctx, "intruder", "marble-and-stone")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestValidateToken(t *testing.T) {
	store := testCredentialStore(t, "admin", "marble-and-stone")
	svc := NewAuthService(store, "test-secret", 12)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "marble-and-stone")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	t.Run("tampered token", func(t *testing.T) {
		tampered := token[:len(token)-2] + "xx"
		if _, err := svc.ValidateToken(tampered); err == nil {
			t.Error("ValidateToken accepted a tampered token")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(store, "other-secret", 12)
		if _, err := other.ValidateToken(token); err == nil {
			t.Error("ValidateToken accepted a token signed with a different secret")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.ValidateToken("not-a-jwt"); err == nil {
			t.Error("ValidateToken accepted garbage")
		}
	})
}

func TestExpiryDefault(t *testing.T) {
	store := testCredentialStore(t, "admin", "pw")
	svc := NewAuthService(store, "s", 0).(*authService)
	if svc.expiry.Hours() != 12 {
		t.Errorf("expiry = %v, want the 12h default", svc.expiry)
	}
}
