package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "john@example.com", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}

	if claims.UserID != "64f1a2b3c4d5e6f708192a3b" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Email != "john@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q", claims.Role)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "john@example.com", "user", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ValidateToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "john@example.com", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	t.Setenv("JWT_SECRET", "another-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}

func TestRemainingLifetime(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("64f1a2b3c4d5e6f708192a3b", "john@example.com", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error: %v", err)
	}

	ttl := RemainingLifetime(claims)
	if ttl <= 50*time.Minute || ttl > time.Hour {
		t.Errorf("RemainingLifetime() = %v, want just under an hour", ttl)
	}
}
