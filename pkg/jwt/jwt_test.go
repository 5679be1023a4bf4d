package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "sarah@company.com", "PM")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "sarah@company.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "PM" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateAccessToken(uuid.New(), "sarah@company.com", "PM")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	other := NewManager("different-secret", "refresh-secret", time.Hour, 24*time.Hour)
	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.GenerateRefreshToken(userID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	got, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if got != userID {
		t.Errorf("user id = %s, want %s", got, userID)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := newTestManager()
	token, err := m.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected refresh token to fail access validation")
	}
}
