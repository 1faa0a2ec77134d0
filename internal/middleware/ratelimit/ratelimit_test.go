package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerWindow: 3, Window: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.1.1.1") {
			t.Fatalf("request %d denied, want allowed", i)
		}
	}
	if rl.Allow("10.1.1.1") {
		t.Error("4th request allowed, want denied")
	}

	// Other clients have their own budget
	if !rl.Allow("10.1.1.2") {
		t.Error("different client denied")
	}

	metrics := rl.GetMetrics()
	if metrics.LimitHits != 1 {
		t.Errorf("LimitHits = %d, want 1", metrics.LimitHits)
	}
	if metrics.ClientCount != 2 {
		t.Errorf("ClientCount = %d, want 2", metrics.ClientCount)
	}
}

func TestWindowReset(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerWindow: 1, Window: 10 * time.Millisecond})
	defer rl.Stop()

	if !rl.Allow("10.1.1.1") {
		t.Fatal("first request denied")
	}
	if rl.Allow("10.1.1.1") {
		t.Fatal("second request in window allowed")
	}

	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("10.1.1.1") {
		t.Error("request after window denied, want allowed")
	}
}

func TestMiddlewareDeniesOverQuota(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerWindow: 1, Window: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware(
		func(r *http.Request) string { return "10.1.1.1" },
		nil,
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
