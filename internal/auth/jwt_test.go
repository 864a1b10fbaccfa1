package auth

import (
	"testing"
	"time"
)

func newTestManager(ttl time.Duration) *Manager {
	return &Manager{
		Secret: []byte("test-secret"),
		TTL:    ttl,
		Issuer: "shelby-backend",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.NewToken("user-123", true)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("UserID = %q, want user-123", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Fatalf("expected admin claim")
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.NewToken("user-123", false)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestParseWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	token, err := m.NewToken("user-123", false)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	other := &Manager{Secret: []byte("other-secret"), TTL: time.Hour, Issuer: "shelby-backend"}
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("ComparePassword error: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
