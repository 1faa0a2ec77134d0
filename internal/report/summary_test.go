package report

import (
	"testing"
	"time"

	"mybudget/internal/core"
)

func expense(cents int64, date time.Time, cat core.CategoryRef) core.Transaction {
	return core.Transaction{
		Amount:   core.Money{Cents: cents},
		Type:     core.Expense,
		Date:     date,
		Category: cat,
	}
}

func income(cents int64, date time.Time) core.Transaction {
	return core.Transaction{
		Amount: core.Money{Cents: cents},
		Type:   core.Income,
		Date:   date,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// Scenario A from the report contract: one income and two Food expenses in
// March 2025.
func scenarioA() ([]core.Transaction, []core.Category) {
	food := core.Category{ID: "cat-food", Name: "Food", Type: core.Expense, Color: "#f97316"}
	txs := []core.Transaction{
		expense(10000, day(2025, 3, 5), core.CategoryID(food.ID)),
		expense(5000, day(2025, 3, 20), core.CategoryID(food.ID)),
		income(100000, day(2025, 3, 1)),
	}
	return txs, []core.Category{food}
}

func TestSummarizeScenarioA(t *testing.T) {
	txs, _ := scenarioA()
	w, _ := MonthRange("2025-03")

	s := Summarize(txs, w)
	if s.TotalIncome.Cents != 100000 {
		t.Errorf("TotalIncome = %d, want 100000", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 15000 {
		t.Errorf("TotalExpense = %d, want 15000", s.TotalExpense.Cents)
	}
	if s.NetSavings.Cents != 85000 {
		t.Errorf("NetSavings = %d, want 85000", s.NetSavings.Cents)
	}
}

func TestSummarizeEmptyWindowIsZero(t *testing.T) {
	w, _ := MonthRange("2025-03")
	s := Summarize(nil, w)
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.NetSavings.Cents != 0 {
		t.Fatalf("empty input should yield zero summary, got %+v", s)
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	txs, _ := scenarioA()
	w, _ := MonthRange("2025-03")
	forward := Summarize(txs, w)

	reversed := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}
	backward := Summarize(reversed, w)

	if forward != backward {
		t.Fatalf("summary depends on input order: %+v vs %+v", forward, backward)
	}
}

func TestSummarizeWindowInclusivity(t *testing.T) {
	w, _ := MonthRange("2025-03")
	txs := []core.Transaction{
		expense(100, w.Start, core.CategoryRef{}),                     // first instant, in
		expense(200, w.End, core.CategoryRef{}),                       // last instant, in
		expense(400, w.Start.Add(-time.Nanosecond), core.CategoryRef{}), // just before, out
		expense(800, w.End.Add(time.Nanosecond), core.CategoryRef{}),    // just after, out
	}
	s := Summarize(txs, w)
	if s.TotalExpense.Cents != 300 {
		t.Fatalf("TotalExpense = %d, want 300 (boundary instants included, neighbours excluded)", s.TotalExpense.Cents)
	}
}
