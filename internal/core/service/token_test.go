package service

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/a2tp3/library-api/internal/core/domain"
)

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.Issue(&domain.User{ID: 42, Login: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if n := len(strings.Split(token, ".")); n != 3 {
		t.Fatalf("expected 3 JWT segments, got %d", n)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Errorf("expected sub 42, got %q", claims.Subject)
	}
	if claims.UniqueName != "alice" {
		t.Errorf("expected unique_name alice, got %q", claims.UniqueName)
	}
	if got := claims.ExpiresAt.Time.Sub(fixed); got != 2*time.Hour {
		t.Errorf("expected 2h lifetime, got %s", got)
	}

	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("UserID() = %d, %v", id, err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue(&domain.User{ID: 1, Login: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = func() time.Time { return start.Add(61 * time.Minute) }
	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Issue(&domain.User{ID: 1, Login: "bob"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokenIssuer("two", time.Hour).Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(signed); err != ErrInvalidToken {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(unsigned); err != ErrInvalidToken {
		t.Fatalf("expected unsigned token to be rejected, got %v", err)
	}
}

func TestTokenIssuer_RejectsMissingExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenIssuer("secret", time.Hour).Verify(signed); err != ErrInvalidToken {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestClaims_UserID(t *testing.T) {
	for _, sub := range []string{"", "abc", "0", "-3"} {
		c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		if _, err := c.UserID(); err != ErrInvalidToken {
			t.Errorf("sub %q: expected ErrInvalidToken, got %v", sub, err)
		}
	}
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: strconv.Itoa(7)}}
	if id, err := c.UserID(); err != nil || id != 7 {
		t.Errorf("sub 7: got %d, %v", id, err)
	}
}
