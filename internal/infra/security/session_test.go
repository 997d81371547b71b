package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionManagerRoundTrip(t *testing.T) {
	m, err := NewSessionManager("test-secret", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", claims.UserID)
	}
}

func TestSessionManagerRejectsForeignSignature(t *testing.T) {
	m1, err := NewSessionManager("secret-one", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	m2, err := NewSessionManager("secret-two", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}

	token, err := m1.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m2.Parse(token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected ErrInvalidSessionToken, got %v", err)
	}
}

func TestSessionManagerRejectsExpiredToken(t *testing.T) {
	m, err := NewSessionManager("test-secret", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	m.ttl = -time.Minute

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrExpiredSessionToken) {
		t.Fatalf("expected ErrExpiredSessionToken, got %v", err)
	}
}

func TestSessionManagerRequiresSecret(t *testing.T) {
	if _, err := NewSessionManager("  ", "secrets", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestSessionManagerRejectsGarbage(t *testing.T) {
	m, err := NewSessionManager("test-secret", "secrets", time.Hour)
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}

	for _, token := range []string{"", "   ", "not-a-token"} {
		if _, err := m.Parse(token); !errors.Is(err, ErrInvalidSessionToken) {
			t.Fatalf("expected ErrInvalidSessionToken for %q, got %v", token, err)
		}
	}
}
