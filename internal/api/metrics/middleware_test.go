package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsStatusSeenByClient(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/livros/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "book not found")
	})

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/livros/:id", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/livros/9", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected counter to grow by 1, got %v -> %v", before, got)
	}
}
