package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"telegram-image-bot/internal/config"
	"telegram-image-bot/internal/infra/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logging.New(config.LogConfig{Level: "error", Format: "console"}, true)
	return NewServer(0, log)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("body = %q, want OK", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("metrics exposition is empty")
	}
}
