package utils

import (
	"errors"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret", 60)

	token, err := GenerateJWTToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("unexpected user id: %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("unexpected email: %q", claims.Email)
	}
}

func TestParseJWTTokenRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret", 60)

	if _, err := ParseJWTToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret", 60)
	token, err := GenerateJWTToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	SetJWTSecret("second-secret", 60)
	if _, err := ParseJWTToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected invalid token error, got %v", err)
	}
}

func TestExtractNameFromEmail(t *testing.T) {
	if name := ExtractNameFromEmail("alice@example.com"); name != "alice" {
		t.Errorf("expected alice, got %q", name)
	}
	if name := ExtractNameFromEmail("bob.smith@example.com"); name != "bob.smith" {
		t.Errorf("expected bob.smith, got %q", name)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !CheckPasswordHash("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
