package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func initTestAuth(t *testing.T, token time.Duration, guest time.Duration) {
	t.Helper()

	if err := Init("test-secret", token, guest); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
}

func TestInitRejectsEmptySecret(t *testing.T) {
	if err := Init("", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	initTestAuth(t, time.Hour, time.Hour)

	tokenString, err := GenerateJWT(42, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	token, err := VerifyJWT(tokenString)
	if err != nil {
		t.Fatalf("VerifyJWT failed: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("expected MapClaims, got %T", token.Claims)
	}

	if got := claims["user_id"].(float64); got != 42 {
		t.Errorf("user_id = %v, want 42", got)
	}

	if got := claims["email"].(string); got != "user@example.com" {
		t.Errorf("email = %q, want %q", got, "user@example.com")
	}
}

func TestVerifyJWTRejectsExpiredToken(t *testing.T) {
	initTestAuth(t, -time.Hour, time.Hour)

	tokenString, err := GenerateJWT(1, "user@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	initTestAuth(t, time.Hour, time.Hour)

	claims := jwt.MapClaims{
		"user_id": float64(1),
		"email":   "user@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := foreign.SignedString([]byte("some-other-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestVerifyJWTRejectsNonHMACToken(t *testing.T) {
	initTestAuth(t, time.Hour, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": float64(1),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatal("expected error for token without HMAC signature")
	}
}

func TestGuestTokenUsesGuestTTL(t *testing.T) {
	initTestAuth(t, time.Hour, -time.Hour)

	tokenString, err := GenerateGuestJWT(7, "guest@guest.invalid")
	if err != nil {
		t.Fatalf("GenerateGuestJWT failed: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err == nil {
		t.Fatal("expected guest token generated with negative TTL to be expired")
	}

	tokenString, err = GenerateJWT(7, "guest@guest.invalid")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	if _, err := VerifyJWT(tokenString); err != nil {
		t.Fatalf("regular token should still verify: %v", err)
	}
}
