package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.9:4811",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "10.0.0.5:4811",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded chain takes first hop",
			remoteAddr: "127.0.0.1:4811",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.5"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from untrusted peer ignored",
			remoteAddr: "198.51.100.7:4811",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "198.51.100.7",
		},
		{
			name:       "real ip header from trusted proxy",
			remoteAddr: "192.168.1.1:4811",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "invalid forwarded value falls back",
			remoteAddr: "10.0.0.5:4811",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "10.0.0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	tests := []struct {
		name  string
		build func() *http.Request
		want  bool
	}{
		{
			name: "plain api request",
			build: func() *http.Request {
				return httptest.NewRequest("GET", "/api/dashboard?month=2025-03", nil)
			},
			want: false,
		},
		{
			name: "path traversal",
			build: func() *http.Request {
				r := httptest.NewRequest("GET", "/api/dashboard", nil)
				r.URL.Path = "/api/../../etc/passwd"
				return r
			},
			want: true,
		},
		{
			name: "sql injection in query",
			build: func() *http.Request {
				r := httptest.NewRequest("GET", "/api/transactions", nil)
				r.URL.RawQuery = "id=1+union+select+*"
				return r
			},
			want: true,
		},
		{
			name: "scanner user agent",
			build: func() *http.Request {
				r := httptest.NewRequest("GET", "/api/overview", nil)
				r.Header.Set("User-Agent", "sqlmap/1.7")
				return r
			},
			want: true,
		},
		{
			name: "unusual method",
			build: func() *http.Request {
				return httptest.NewRequest("TRACE", "/api/overview", nil)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			if got := d.DetectSuspiciousRequest(tt.build()); got != tt.want {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.want)
			}
			metrics := d.GetMetrics()
			var wantCount int64
			if tt.want {
				wantCount = 1
			}
			if metrics.SuspiciousRequests != wantCount {
				t.Errorf("SuspiciousRequests = %d, want %d", metrics.SuspiciousRequests, wantCount)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("100.64.0.0/10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Error("expected error for invalid CIDR")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "100.64.0.1:4811"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Errorf("ExtractClientIP() = %q, want forwarded IP after trusting proxy", got)
	}
}
