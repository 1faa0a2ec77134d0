package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mybudget/internal/core"
)

func TestHealthEndpoints(t *testing.T) {
	s, _, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)

	checks := map[string]string{
		"X-Content-Type-Options":       "nosniff",
		"X-Frame-Options":              "DENY",
		"Referrer-Policy":              "no-referrer",
		"Cross-Origin-Opener-Policy":   "same-origin",
		"Cross-Origin-Resource-Policy": "same-origin",
	}
	for header, want := range checks {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header")
	}
}

func TestMutationsRateLimited(t *testing.T) {
	s, _, _ := newTestServer(t)

	body := budgetRequest{Amount: core.Money{Cents: 1000}, Month: "2025-03"}

	var lastCode int
	for i := 0; i < 61; i++ {
		rec, _ := doRequest(t, s, http.MethodPut, "/api/budgets", body, nil)
		lastCode = rec.Code
		if i < 60 && rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
		if rec.Code == http.StatusTooManyRequests {
			if retry := rec.Header().Get("Retry-After"); retry != "60" {
				t.Errorf("Retry-After = %q, want 60", retry)
			}
		}
	}
	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("61st request status = %d, want 429", lastCode)
	}
}

func TestReadsNotRateLimited(t *testing.T) {
	s, _, _ := newTestServer(t)

	for i := 0; i < 80; i++ {
		rec, _ := doRequest(t, s, http.MethodGet, "/api/overview", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("read %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
