package http

import (
	"errors"
	"net/http/httptest"
	"testing"

	"mybudget/internal/core"
)

func TestMonthParam(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr error
	}{
		{name: "explicit month", target: "/api/dashboard?month=2025-03", want: "2025-03"},
		{name: "default is current month", target: "/api/dashboard", want: currentMonth()},
		{name: "month zero rejected", target: "/api/dashboard?month=2025-00", wantErr: core.ErrInvalidMonthKey},
		{name: "month thirteen rejected", target: "/api/dashboard?month=2025-13", wantErr: core.ErrInvalidMonthKey},
		{name: "malformed rejected", target: "/api/dashboard?month=march", wantErr: core.ErrInvalidMonthKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			got, err := monthParam(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("month = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOwnerID(t *testing.T) {
	s := &Server{defaultOwner: "local"}

	r := httptest.NewRequest("GET", "/api/overview", nil)
	if got := s.ownerID(r); got != "local" {
		t.Errorf("default owner = %q, want local", got)
	}

	r.Header.Set(ownerHeader, "  alice  ")
	if got := s.ownerID(r); got != "alice" {
		t.Errorf("header owner = %q, want alice", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2025-03-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || int(d.Month()) != 3 || d.Day() != 12 {
		t.Errorf("parsed %v", d)
	}

	if _, err := parseDate("12/03/2025"); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  plain  ", "plain"},
		{"tab\tkept", "tab\tkept"},
		{"nul\x00dropped", "nuldropped"},
		{"bell\x07gone", "bellgone"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
