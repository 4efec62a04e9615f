package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenCarriesClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 7, "ADMIN", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse: %v valid=%v", err, tok != nil && tok.Valid)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 7 {
		t.Fatalf("expected sub 7, got %v", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %v", claims["role"])
	}
	if at.Exp.Before(time.Now()) {
		t.Fatalf("expiry already passed: %v", at.Exp)
	}
}

func TestRefreshTokensAreUniqueAndHashed(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatalf("two refresh tokens must differ")
	}
	if len(a.Raw) != 96 { // 48 random bytes, hex encoded
		t.Fatalf("unexpected token length %d", len(a.Raw))
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) {
		t.Fatalf("hash must be deterministic")
	}
	if HashRefreshRaw(a.Raw) == a.Raw {
		t.Fatalf("hash must differ from raw token")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("segreto", 4) // minimum cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "segreto") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "sbagliato") {
		t.Fatalf("wrong password accepted")
	}
}
