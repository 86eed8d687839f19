package auth

import (
	"errors"
	"testing"
	"time"
)

func testConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "meetwire",
		Audience: "meetwire-clients",
		TTL:      time.Hour,
	}
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateToken(cfg, 42, "host")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := VerifyToken(cfg, token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
	if claims.Role != "host" {
		t.Fatalf("expected role host, got %q", claims.Role)
	}
}

func TestVerifyTokenMissing(t *testing.T) {
	if _, err := VerifyToken(testConfig(), ""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, 1, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := testConfig()
	other.Secret = []byte("another-secret")
	if _, err := VerifyToken(other, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenTampered(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, 1, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := VerifyToken(cfg, tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = -time.Minute

	token, err := GenerateToken(cfg, 1, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := VerifyToken(testConfig(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenIssuerMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	token, err := GenerateToken(cfg, 1, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := VerifyToken(testConfig(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenAudienceMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.Audience = "someone-else"
	token, err := GenerateToken(cfg, 1, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := VerifyToken(testConfig(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
