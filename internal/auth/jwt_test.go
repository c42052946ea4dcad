package auth

import (
	"testing"
	"time"

	"bookcatalog/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	iss, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return iss
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	iss, err := NewTokenIssuer("k", 0)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	if iss.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %v", iss.ttl)
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	iss := newTestIssuer(t)
	tok, exp, err := iss.Sign("u-1", models.RoleAuthor, models.StatusActive)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if d := time.Until(exp); d <= 0 || d > time.Hour+time.Minute {
		t.Fatalf("unexpected expiry %v", exp)
	}
	actor, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor.ID != "u-1" || actor.Role != models.RoleAuthor || actor.Status != models.StatusActive {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := newTestIssuer(t)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := iss.Sign("u-1", models.RoleUser, models.StatusActive)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	iss.now = time.Now
	if _, err := iss.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other, _ := NewTokenIssuer("other-secret", time.Hour)
	tok, _, _ := other.Sign("u-1", models.RoleAdmin, models.StatusActive)
	if _, err := newTestIssuer(t).Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u-1", "role": "ADMIN", "status": "ACTIVE", "exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := newTestIssuer(t).Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, _ := tok.SignedString([]byte("test-secret"))
	if _, err := newTestIssuer(t).Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := newTestIssuer(t).Verify("not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
