package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

const testUserID = "b2f1a2ce-9a34-4a4b-8a6a-0f62cf3a8f11"

func TestHMACStrategyRoundTrip(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	token, err := s.IssueToken(testUserID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if got != testUserID {
		t.Fatalf("expected user %s, got %s", testUserID, got)
	}
}

func TestHMACStrategyRejectsTampering(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	token, err := s.IssueToken(testUserID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(token)
	parts := strings.Split(string(raw), ":")
	parts[0] = "00000000-0000-0000-0000-000000000000"
	forged := base64.StdEncoding.EncodeToString([]byte(strings.Join(parts, ":")))

	if _, err := s.ParseToken(forged); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsExpired(t *testing.T) {
	s := NewHMACStrategy("secret", Options{TTL: -time.Minute})
	token, err := s.IssueToken(testUserID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := s.ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestHMACStrategyRejectsWrongSecret(t *testing.T) {
	token, err := NewHMACStrategy("secret-a", Options{}).IssueToken(testUserID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := NewHMACStrategy("secret-b", Options{}).ParseToken(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHMACStrategyRejectsGarbage(t *testing.T) {
	s := NewHMACStrategy("secret", Options{})
	for _, token := range []string{"", "not-base64!!", base64.StdEncoding.EncodeToString([]byte("one:two"))} {
		if _, err := s.ParseToken(token); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
