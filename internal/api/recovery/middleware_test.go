package recovery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docvault-ai/docvault/internal/api/respond"
)

func TestMiddlewarePanicBecomesErrorEnvelope(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("lost store connection")
	}))

	req := httptest.NewRequest("DELETE", "/v1/rag/reports", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body respond.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not the JSON error envelope: %v", err)
	}
	if body.Code != http.StatusInternalServerError {
		t.Fatalf("expected envelope code 500, got %d", body.Code)
	}
	if body.Message == "lost store connection" {
		t.Fatalf("panic value must not leak to the caller")
	}
}

func TestMiddlewarePassThru(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("response body altered: %q", rr.Body.String())
	}
}
