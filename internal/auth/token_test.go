package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := tm.GenerateToken("sess-123", "user-456")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry %v not within the configured ttl", until)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "sess-123" {
		t.Fatalf("session id %q, want sess-123", claims.SessionID)
	}
	if claims.UserID != "user-456" || claims.Subject != "user-456" {
		t.Fatalf("user id %q subject %q, want user-456", claims.UserID, claims.Subject)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", time.Hour).GenerateToken("s", "u")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).ParseToken(token); err == nil {
		t.Fatal("token signed with a different secret parsed successfully")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
	token, _, err := tm.GenerateToken("s", "u")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := tm.ParseToken(token); err == nil {
		t.Fatal("expired token parsed successfully")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	if _, err := tm.ParseToken("not-a-jwt"); err == nil {
		t.Fatal("garbage token parsed successfully")
	}
}
