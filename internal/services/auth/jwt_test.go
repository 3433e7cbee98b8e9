package auth

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := manager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("empty token or expiry")
	}

	claims, err := manager.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id: got %d want 42", claims.UserID)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := verifier.ParseAccessToken(token); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, _, err := manager.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	verifier := NewJWTManager("test-secret", time.Minute)
	if _, err := verifier.ParseAccessToken(token); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTRejectsEmptyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	if _, err := manager.ParseAccessToken("   "); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
