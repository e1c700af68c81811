package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSessions("test-secret", "dev", time.Hour)
	if err != nil {
		t.Fatalf("new sessions: %v", err)
	}
	token, err := s.Sign(Identity{UserID: "user-1", Email: "a@example.com", Name: "Ana"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "a@example.com" || claims.Name != "Ana" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	s, _ := NewSessions("test-secret", "dev", time.Minute)
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	token, err := s.Sign(Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other, _ := NewSessions("other-secret", "dev", time.Minute)
	other.now = func() time.Time { return base }
	s.now = func() time.Time { return base }
	foreign, _ := other.Sign(Identity{UserID: "user-1"})
	if _, err := s.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected foreign token to be rejected, got %v", err)
	}
}

func TestNewSessionsRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSessions("", "production", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}
