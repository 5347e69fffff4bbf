package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.GenerateToken(RolePriceAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Role != RolePriceAdmin {
		t.Fatalf("role = %q, want %q", claims.Role, RolePriceAdmin)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected a future expiry")
	}
}

func TestGenerateTokenRequiresRole(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.GenerateToken(""); err == nil {
		t.Fatalf("expected error for empty role")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(RolePriceAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure for wrong secret")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	svc.expiresIn = -time.Minute

	token, err := svc.GenerateToken(RolePriceAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure for expired token")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.ValidateToken("not.a.jwt"); err == nil {
		t.Fatalf("expected validation failure for malformed token")
	}
}

func TestKeyVerifier(t *testing.T) {
	hash, err := HashKey("super-secret-key")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	verifier, err := NewKeyVerifier(hash)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	if err := verifier.Verify("super-secret-key"); err != nil {
		t.Fatalf("expected key to verify: %v", err)
	}
	if err := verifier.Verify("wrong-key"); err == nil {
		t.Fatalf("expected verification failure for wrong key")
	}
	if err := verifier.Verify(""); err == nil {
		t.Fatalf("expected verification failure for empty key")
	}
}

func TestNewKeyVerifierRequiresHash(t *testing.T) {
	if _, err := NewKeyVerifier(""); err == nil {
		t.Fatalf("expected error for empty hash")
	}
}
