package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestJSONSerializer_RoundTrip(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := (jsonSerializer{}).Serialize(c, map[string]any{"titulo": "Dom Casmurro", "valor": 15.5}, ""); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("output is not standard json: %v", err)
	}
	if got["titulo"] != "Dom Casmurro" || got["valor"] != 15.5 {
		t.Fatalf("unexpected body: %+v", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"livroIds":[1,2]}`))
	c = e.NewContext(req, httptest.NewRecorder())
	var body struct {
		BookIDs []int64 `json:"livroIds"`
	}
	if err := (jsonSerializer{}).Deserialize(c, &body); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if len(body.BookIDs) != 2 || body.BookIDs[1] != 2 {
		t.Fatalf("unexpected decode: %+v", body)
	}
}

func TestJSONSerializer_MalformedBodyIsBadRequest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"livroIds":`))
	c := e.NewContext(req, httptest.NewRecorder())

	var body map[string]any
	err := (jsonSerializer{}).Deserialize(c, &body)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
