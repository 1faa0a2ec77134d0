package google

import (
	"testing"
	"time"

	"mybudget/internal/core"
	"mybudget/internal/report"
)

func TestBuildRows(t *testing.T) {
	payload := report.ExportPayload{
		Month: "2025-03",
		Transactions: []report.TransactionView{
			{
				Date:         time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
				Description:  "groceries",
				CategoryName: "Food",
				Type:         "expense",
				Amount:       core.Money{Cents: 5000},
			},
		},
		Totals: report.Summary{
			TotalIncome:  core.Money{Cents: 100000},
			TotalExpense: core.Money{Cents: 5000},
			NetSavings:   core.Money{Cents: 95000},
		},
		CategoryTotals: []report.CategoryEntry{
			{Name: "Food", Total: core.Money{Cents: 5000}, Percentage: 100.0, TransactionCount: 1},
		},
		BudgetRows: []report.BudgetProgress{
			{
				Name:         report.OverallName,
				BudgetAmount: core.Money{Cents: 20000},
				Spent:        core.Money{Cents: 5000},
				Remaining:    core.Money{Cents: 15000},
				PercentUsed:  25.0,
				Status:       report.StatusOnTrack,
			},
		},
	}

	rows := BuildRows("local", payload)

	if rows[0][0] != "Monthly Report" || rows[0][1] != "2025-03" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[2][1] != 1000.0 {
		t.Errorf("total income cell = %v, want 1000.0", rows[2][1])
	}
	if rows[4][1] != 950.0 {
		t.Errorf("net savings cell = %v, want 950.0", rows[4][1])
	}

	// Transaction row follows the column header.
	tx := rows[7]
	if tx[0] != "2025-03-20" || tx[1] != "groceries" || tx[2] != "Food" || tx[4] != 50.0 {
		t.Errorf("transaction row = %v", tx)
	}

	// The last row is the budget entry.
	budget := rows[len(rows)-1]
	if budget[0] != report.OverallName || budget[1] != 200.0 || budget[5] != "on-track" {
		t.Errorf("budget row = %v", budget)
	}

	// Every section header renders even when its section is empty.
	empty := BuildRows("local", report.ExportPayload{Month: "2025-04"})
	if len(empty) != 11 {
		t.Errorf("empty payload rows = %d, want 11", len(empty))
	}
}
