package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"mybudget/internal/core"
	"mybudget/internal/report"
)

// ownerHeader selects the account a request operates on. Absent, the server
// default applies.
const ownerHeader = "X-Owner-ID"

const maxBodyBytes = 1 << 20

// ownerID resolves the owner for a request.
func (s *Server) ownerID(r *http.Request) string {
	if owner := sanitizeInput(r.Header.Get(ownerHeader)); owner != "" {
		return owner
	}
	return s.defaultOwner
}

// monthParam reads the month query parameter, defaulting to the current
// calendar month.
func monthParam(r *http.Request) (string, error) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		return currentMonth(), nil
	}
	if !core.ValidMonthKey(month) {
		return "", core.ErrInvalidMonthKey
	}
	return month, nil
}

// decodeJSON parses the request body into dst, capping its size.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

func currentMonth() string {
	return report.MonthKeyOf(time.Now())
}

// parseDate parses a date string in YYYY-MM-DD format.
func parseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
