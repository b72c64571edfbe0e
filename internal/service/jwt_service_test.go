package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signClaims(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTService_IssueParseAccess(t *testing.T) {
	svc := NewJWTService("secret", 15*time.Minute)

	token, err := svc.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Subject != "u1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_Disabled(t *testing.T) {
	svc := NewJWTService("", 0)
	if svc.Enabled() {
		t.Fatalf("expected disabled service without secret")
	}
	if _, err := svc.IssueAccessToken("u1"); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid on empty secret, got %v", err)
	}
	var nilSvc *JWTService
	if nilSvc.Enabled() {
		t.Fatalf("nil service must be disabled")
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	other := NewJWTService("other", time.Minute)
	token, err := other.IssueAccessToken("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := NewJWTService("secret", time.Minute).ParseAccessToken(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid, got %v", err)
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	now := time.Now().UTC()
	signed := signClaims(t, "secret", Claims{
		UserID:    "u1",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	})
	if _, err := NewJWTService("secret", time.Minute).ParseAccessToken(signed); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuerAndType(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	now := time.Now().UTC()
	base := jwt.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
	}

	wrongIssuer := base
	wrongIssuer.Issuer = "other-issuer"
	signed := signClaims(t, "secret", Claims{UserID: "u1", TokenType: "access", RegisteredClaims: wrongIssuer})
	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong issuer, got %v", err)
	}

	refresh := base
	refresh.Issuer = jwtIssuer
	signed = signClaims(t, "secret", Claims{UserID: "u1", TokenType: "refresh", RegisteredClaims: refresh})
	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for refresh token, got %v", err)
	}
}
