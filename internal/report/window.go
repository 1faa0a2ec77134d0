// Package report implements the monthly aggregation engine: pure functions
// turning a snapshot of transactions, categories and budgets into the derived
// structures served by the dashboard, monthly reports and exports.
//
// Nothing in this package performs I/O or keeps state; every function is a
// deterministic reduction over the arguments it receives.
package report

import (
	"fmt"
	"time"

	"mybudget/internal/core"
)

// Window is an inclusive [Start, End] instant range used to filter
// transactions for aggregation.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthRange resolves a month key (YYYY-MM) to the inclusive span covering
// that whole calendar month: first instant of day 1 through the last instant
// of the last day. Returns core.ErrInvalidMonthKey for malformed keys.
func MonthRange(monthKey string) (Window, error) {
	if !core.ValidMonthKey(monthKey) {
		return Window{}, fmt.Errorf("%w: %q", core.ErrInvalidMonthKey, monthKey)
	}
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", core.ErrInvalidMonthKey, monthKey)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Window{Start: start, End: end}, nil
}

// MonthKeyOf returns the month key of the calendar month containing t.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// DaysInRange enumerates the calendar days of the window, oldest first,
// inclusive of both endpoints. Each element is the first instant of its day.
func DaysInRange(w Window) []time.Time {
	first := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 0, 0, 0, 0, time.UTC)

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// PreviousMonthKey returns the month key of the calendar month before the one
// containing t. The shift starts from the first of the month, so month-end
// dates cannot normalize forward past the intended month.
func PreviousMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKeyOf(first.AddDate(0, -1, 0))
}

// LastNMonthKeys returns n consecutive month keys, oldest first, ending at
// the month containing anchor. Year boundaries roll over exactly.
func LastNMonthKeys(n int, anchor time.Time) []string {
	if n <= 0 {
		return nil
	}
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, MonthKeyOf(first.AddDate(0, -i, 0)))
	}
	return keys
}
