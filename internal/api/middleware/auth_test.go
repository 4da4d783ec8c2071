package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/a2tp3/library-api/internal/core/domain"
	"github.com/a2tp3/library-api/internal/core/service"
)

const testSecret = "secret"

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(service.NewTokenIssuer(testSecret, time.Hour))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, c
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := service.NewTokenIssuer(testSecret, time.Hour).Issue(&domain.User{ID: 42, Login: "alice"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, called, c := runAuth(t, "Bearer "+token)

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get(ContextUserID) != int64(42) {
		t.Fatalf("user_id not set, got %v", c.Get(ContextUserID))
	}
	if c.Get(ContextLogin) != "alice" {
		t.Fatalf("login not set, got %v", c.Get(ContextLogin))
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, called, _ := runAuth(t, "")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	rec, called, _ := runAuth(t, "Token abc")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, called, _ := runAuth(t, "Bearer not-a-token")
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called, _ := runAuth(t, "Bearer "+signed)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_NonNumericSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called, _ := runAuth(t, "Bearer "+signed)
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
