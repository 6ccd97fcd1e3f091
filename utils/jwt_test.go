package utils_test

import (
	"errors"
	"testing"
	"time"

	"TimeCanvasGo/utils"

	"github.com/golang-jwt/jwt/v4"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := utils.NewTokenManager("secret")
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	token, err := m.GenerateToken("u1", "a@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	for _, raw := range []string{token, "Bearer " + token, "bearer  " + token} {
		claims, err := m.ParseToken(raw)
		if err != nil {
			t.Fatalf("ParseToken(%.10q...): %v", raw, err)
		}
		if claims.Subject != "u1" || claims.Email != "a@example.com" {
			t.Errorf("claims = %+v", claims)
		}
		if claims.ID == "" {
			t.Error("token has no ID")
		}
	}
}

func TestParseTokenRejects(t *testing.T) {
	m, _ := utils.NewTokenManager("secret")
	other, _ := utils.NewTokenManager("other-secret")
	foreign, _ := other.GenerateToken("u1", "")

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte("secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &utils.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", expired},
		{"no subject", noSubject},
		{"alg none", unsigned},
	}
	for _, tt := range tests {
		if _, err := m.ParseToken(tt.token); !errors.Is(err, utils.ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", tt.name, err)
		}
	}
}

func TestNewTokenManagerEmptySecret(t *testing.T) {
	if _, err := utils.NewTokenManager(""); err == nil {
		t.Error("NewTokenManager accepted an empty secret")
	}
}

func TestGenerateID(t *testing.T) {
	a, b := utils.GenerateID(), utils.GenerateID()
	if a == "" || a == b {
		t.Errorf("GenerateID returned %q and %q", a, b)
	}
}
