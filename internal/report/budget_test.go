package report

import (
	"errors"
	"testing"

	"mybudget/internal/core"
)

// Scenario B: overall budget of 200 against 150 spent.
func TestProgressOverallBudgetOnTrack(t *testing.T) {
	txs, cats := scenarioA()
	w, _ := MonthRange("2025-03")
	budgets := []core.Budget{{ID: "b-1", Amount: core.Money{Cents: 20000}, Month: "2025-03"}}

	progress, err := Progress(budgets, txs, IndexCategories(cats), w)
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(progress))
	}
	p := progress[0]
	if p.Name != OverallName || p.Color != OverallColor || p.CategoryID != "" {
		t.Errorf("overall identity wrong: %+v", p)
	}
	if p.Spent.Cents != 15000 {
		t.Errorf("Spent = %d, want 15000", p.Spent.Cents)
	}
	if p.Remaining.Cents != 5000 {
		t.Errorf("Remaining = %d, want 5000", p.Remaining.Cents)
	}
	if p.PercentUsed != 75.0 {
		t.Errorf("PercentUsed = %v, want 75.0", p.PercentUsed)
	}
	if p.Status != StatusOnTrack {
		t.Errorf("Status = %s, want on-track", p.Status)
	}
}

// Scenario C: budget 100 with 150 spent goes negative and over-budget.
func TestProgressOverBudget(t *testing.T) {
	txs, cats := scenarioA()
	w, _ := MonthRange("2025-03")
	budgets := []core.Budget{{ID: "b-1", Amount: core.Money{Cents: 10000}, Month: "2025-03"}}

	progress, err := Progress(budgets, txs, IndexCategories(cats), w)
	if err != nil {
		t.Fatal(err)
	}
	p := progress[0]
	if p.PercentUsed != 150.0 {
		t.Errorf("PercentUsed = %v, want 150.0", p.PercentUsed)
	}
	if p.Status != StatusOverBudget {
		t.Errorf("Status = %s, want over-budget", p.Status)
	}
	if p.Remaining.Cents != -5000 {
		t.Errorf("Remaining = %d, want -5000", p.Remaining.Cents)
	}
}

func TestProgressCategoryScopedBudget(t *testing.T) {
	w, _ := MonthRange("2025-03")
	food := core.Category{ID: "cat-food", Name: "Food", Type: core.Expense, Color: "#f97316"}
	txs := []core.Transaction{
		expense(9000, day(2025, 3, 5), core.CategoryID("cat-food")),
		expense(5000, day(2025, 3, 6), core.CategoryRef{}), // uncategorized, outside the scope
	}
	budgets := []core.Budget{{
		ID:     "b-food",
		Amount: core.Money{Cents: 10000},
		Month:  "2025-03",
		Scope:  core.ScopeCategory("cat-food"),
	}}

	progress, err := Progress(budgets, txs, IndexCategories([]core.Category{food}), w)
	if err != nil {
		t.Fatal(err)
	}
	p := progress[0]
	if p.CategoryID != "cat-food" || p.Name != "Food" || p.Color != "#f97316" {
		t.Errorf("scoped identity wrong: %+v", p)
	}
	if p.Spent.Cents != 9000 {
		t.Errorf("Spent = %d, want 9000 (only the scoped category)", p.Spent.Cents)
	}
	if p.PercentUsed != 90.0 || p.Status != StatusWarning {
		t.Errorf("PercentUsed/Status = %v/%s, want 90.0/warning", p.PercentUsed, p.Status)
	}
}

func TestProgressOverallCountsAllCategories(t *testing.T) {
	// The overall budget is a whole-month ceiling, not an uncategorized-only one.
	w, _ := MonthRange("2025-03")
	txs := []core.Transaction{
		expense(4000, day(2025, 3, 1), core.CategoryID("cat-food")),
		expense(1000, day(2025, 3, 2), core.CategoryRef{}),
	}
	budgets := []core.Budget{{ID: "b-1", Amount: core.Money{Cents: 10000}, Month: "2025-03"}}

	progress, err := Progress(budgets, txs, CategoryIndex{}, w)
	if err != nil {
		t.Fatal(err)
	}
	if progress[0].Spent.Cents != 5000 {
		t.Fatalf("Spent = %d, want 5000", progress[0].Spent.Cents)
	}
}

func TestProgressRejectsNonPositiveBudget(t *testing.T) {
	w, _ := MonthRange("2025-03")
	for _, cents := range []int64{0, -100} {
		budgets := []core.Budget{{ID: "b-bad", Amount: core.Money{Cents: cents}, Month: "2025-03"}}
		_, err := Progress(budgets, nil, nil, w)
		if !errors.Is(err, core.ErrInvalidBudget) {
			t.Fatalf("amount %d: expected ErrInvalidBudget, got %v", cents, err)
		}
	}
}

func TestProgressEmptyBudgetsIsEmptyResult(t *testing.T) {
	w, _ := MonthRange("2025-03")
	progress, err := Progress(nil, nil, nil, w)
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 0 {
		t.Fatalf("expected empty result, got %+v", progress)
	}
}

func TestProgressStatusBoundaries(t *testing.T) {
	tests := []struct {
		percent float64
		want    BudgetStatus
	}{
		{0, StatusOnTrack},
		{79.9, StatusOnTrack},
		{80.0, StatusWarning},
		{99.9, StatusWarning},
		{100.0, StatusOverBudget},
		{150.0, StatusOverBudget},
	}
	for _, tt := range tests {
		if got := statusFor(tt.percent); got != tt.want {
			t.Errorf("statusFor(%v) = %s, want %s", tt.percent, got, tt.want)
		}
	}
}
