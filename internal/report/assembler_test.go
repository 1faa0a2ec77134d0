package report

import (
	"testing"
	"time"

	"mybudget/internal/core"
)

func marchSnapshot() MonthSnapshot {
	txs, cats := scenarioA()
	return MonthSnapshot{
		Month:        "2025-03",
		Transactions: txs,
		Categories:   cats,
		Budgets: []core.Budget{
			{ID: "b-1", Amount: core.Money{Cents: 20000}, Month: "2025-03"},
		},
	}
}

func TestAssembleDashboard(t *testing.T) {
	snap := marchSnapshot()
	trendKeys := []string{"2025-02", "2025-03"}
	trendByMonth := map[string][]core.Transaction{
		"2025-03": snap.Transactions,
	}

	p, err := AssembleDashboard(snap, trendByMonth, trendKeys)
	if err != nil {
		t.Fatal(err)
	}
	if p.Month != "2025-03" {
		t.Errorf("Month = %s", p.Month)
	}
	if p.Summary.NetSavings.Cents != 85000 {
		t.Errorf("NetSavings = %d", p.Summary.NetSavings.Cents)
	}
	if len(p.RecentTransactions) != 3 {
		t.Errorf("RecentTransactions = %d, want 3", len(p.RecentTransactions))
	}
	// Newest first.
	if !p.RecentTransactions[0].Date.After(p.RecentTransactions[1].Date) {
		t.Errorf("recents not sorted newest first")
	}
	if len(p.BudgetProgress) != 1 || p.BudgetProgress[0].Status != StatusOnTrack {
		t.Errorf("BudgetProgress = %+v", p.BudgetProgress)
	}
	if len(p.MonthlyTrend) != 2 || p.MonthlyTrend[1].Expense.Cents != 15000 {
		t.Errorf("MonthlyTrend = %+v", p.MonthlyTrend)
	}
	if len(p.TopCategories) != 1 || p.TopCategories[0].Name != "Food" {
		t.Errorf("TopCategories = %+v", p.TopCategories)
	}
}

func TestAssembleDashboardTruncatesWithoutChangingTotals(t *testing.T) {
	w, _ := MonthRange("2025-03")
	var txs []core.Transaction
	var cats []core.Category
	// Seven categories with distinct totals; only five survive truncation.
	for i := 0; i < 7; i++ {
		id := string(rune('a' + i))
		cats = append(cats, core.Category{ID: "cat-" + id, Name: id, Type: core.Expense})
		txs = append(txs, expense(int64(1000*(i+1)), day(2025, 3, i+1), core.CategoryID("cat-"+id)))
	}
	snap := MonthSnapshot{Month: "2025-03", Transactions: txs, Categories: cats}

	p, err := AssembleDashboard(snap, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.TopCategories) != TopCategoryLimit {
		t.Fatalf("TopCategories = %d, want %d", len(p.TopCategories), TopCategoryLimit)
	}
	if len(p.RecentTransactions) != RecentTransactionLimit {
		t.Fatalf("RecentTransactions = %d, want %d", len(p.RecentTransactions), RecentTransactionLimit)
	}
	// Percentages are relative to the untruncated total expense.
	total := Summarize(txs, w).TotalExpense.Cents
	top := p.TopCategories[0]
	if want := core.Round1Percent(top.Total.Cents, total); top.Percentage != want {
		t.Fatalf("truncation changed percentage basis: %v != %v", top.Percentage, want)
	}
}

func TestAssembleMonthlyReport(t *testing.T) {
	p, err := AssembleMonthlyReport(marchSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if p.Summary.TotalExpense.Cents != 15000 {
		t.Errorf("TotalExpense = %d", p.Summary.TotalExpense.Cents)
	}
	if len(p.CategoryBreakdown) != 1 || p.CategoryBreakdown[0].Percentage != 100.0 {
		t.Errorf("CategoryBreakdown = %+v", p.CategoryBreakdown)
	}
	if len(p.BudgetSummary) != 1 || p.BudgetSummary[0].PercentUsed != 75.0 {
		t.Errorf("BudgetSummary = %+v", p.BudgetSummary)
	}
	if len(p.DailyExpenses) != 31 {
		t.Errorf("DailyExpenses = %d points, want 31", len(p.DailyExpenses))
	}
	var daily int64
	for _, d := range p.DailyExpenses {
		daily += d.Amount.Cents
	}
	if daily != p.Summary.TotalExpense.Cents {
		t.Errorf("daily series sums to %d, want %d", daily, p.Summary.TotalExpense.Cents)
	}
}

func TestAssembleMonthlyReportBadMonth(t *testing.T) {
	if _, err := AssembleMonthlyReport(MonthSnapshot{Month: "bogus"}); err == nil {
		t.Fatal("expected error for malformed month key")
	}
}

func TestAssembleExport(t *testing.T) {
	p, err := AssembleExport(marchSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Transactions) != 3 {
		t.Fatalf("Transactions = %d, want 3", len(p.Transactions))
	}
	// Newest first for the spreadsheet.
	if p.Transactions[0].Date.Before(p.Transactions[1].Date) {
		t.Error("export rows not sorted newest first")
	}
	if p.Totals.TotalIncome.Cents != 100000 || p.Totals.TotalExpense.Cents != 15000 {
		t.Errorf("Totals = %+v", p.Totals)
	}
	if len(p.CategoryTotals) != 1 || len(p.BudgetRows) != 1 {
		t.Errorf("CategoryTotals/BudgetRows = %d/%d", len(p.CategoryTotals), len(p.BudgetRows))
	}
	if p.BudgetRows[0].Remaining.Cents != 5000 {
		t.Errorf("budget variance = %d, want 5000", p.BudgetRows[0].Remaining.Cents)
	}
}

func TestAssembleOverview(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	cats := []core.Category{
		{ID: "c1", Name: "Food", Type: core.Expense, CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "c2", Name: "Salary", Type: core.Income, CreatedAt: now.AddDate(0, 0, -1)},
	}
	txs := []core.Transaction{
		income(100000, day(2025, 2, 10)), // previous month
		income(150000, day(2025, 3, 10)), // current month, +50% growth
		expense(5000, day(2025, 3, 11), core.CategoryID("c1")),
		income(70000, day(2024, 6, 1)), // old income still counts in revenue
	}

	p, err := AssembleOverview(txs, cats, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalTransactions != 4 {
		t.Errorf("TotalTransactions = %d", p.TotalTransactions)
	}
	if p.TotalRevenue.Cents != 320000 {
		t.Errorf("TotalRevenue = %d, want 320000", p.TotalRevenue.Cents)
	}
	if p.RevenueGrowth != "+50.0%" {
		t.Errorf("RevenueGrowth = %s, want +50.0%%", p.RevenueGrowth)
	}
	if len(p.Activity) != TrendMonths {
		t.Errorf("Activity = %d months", len(p.Activity))
	}
	if p.Activity[len(p.Activity)-1].Period != "2025-03" || p.Activity[len(p.Activity)-1].Count != 2 {
		t.Errorf("current month activity = %+v", p.Activity[len(p.Activity)-1])
	}
	if len(p.LatestCategories) != 2 || p.LatestCategories[0].ID != "c2" {
		t.Errorf("LatestCategories = %+v", p.LatestCategories)
	}
	if len(p.LatestTransactions) == 0 || p.LatestTransactions[0].Date != day(2025, 3, 11) {
		t.Errorf("LatestTransactions = %+v", p.LatestTransactions)
	}
}

func TestAssemblePocketHistory(t *testing.T) {
	keys := []string{"2025-01", "2025-02", "2025-03"}
	byMonth := map[string][]core.Transaction{
		"2025-01": {
			expense(4000, day(2025, 1, 5), core.CategoryRef{}),
			income(90000, day(2025, 1, 25)), // income never counts
		},
		"2025-02": {income(90000, day(2025, 2, 25))}, // expense-free, skipped
		"2025-03": {
			expense(10000, day(2025, 3, 2), core.CategoryRef{}),
			expense(5000, day(2025, 3, 20), core.CategoryRef{}),
		},
	}

	entries, err := AssemblePocketHistory(byMonth, keys)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (february has no expenses)", len(entries))
	}
	// Newest first.
	if entries[0].Month != "March 2025" || entries[1].Month != "January 2025" {
		t.Errorf("months = %q, %q", entries[0].Month, entries[1].Month)
	}
	if entries[0].TotalAmount.Cents != 15000 || entries[0].TransactionCount != 2 {
		t.Errorf("march entry = %+v", entries[0])
	}
	if entries[1].TotalAmount.Cents != 4000 || entries[1].TransactionCount != 1 {
		t.Errorf("january entry = %+v", entries[1])
	}

	if _, err := AssemblePocketHistory(nil, []string{"bogus"}); err == nil {
		t.Error("expected error for malformed month key")
	}
}

func TestAssembleOverviewGrowthAtMonthEnd(t *testing.T) {
	// AddDate from a month-end day would normalize Mar 31 - 1mo into March
	// itself, comparing the current month against itself. The previous-month
	// window must anchor on February regardless of the day of the month.
	now := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		income(100000, day(2025, 2, 10)),
		income(150000, day(2025, 3, 10)),
	}

	p, err := AssembleOverview(txs, nil, now)
	if err != nil {
		t.Fatal(err)
	}
	if p.RevenueGrowth != "+50.0%" {
		t.Errorf("RevenueGrowth on %s = %s, want +50.0%%", now.Format("2006-01-02"), p.RevenueGrowth)
	}
}

func TestAssemblePocketReport(t *testing.T) {
	snap := marchSnapshot()
	keys := []string{"2025-02", "2025-03"}
	byMonth := map[string][]core.Transaction{"2025-03": snap.Transactions}

	p, err := AssemblePocketReport(snap, byMonth, keys)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.MonthlyExpenses) != 2 || p.MonthlyExpenses[1].Expense.Cents != 15000 {
		t.Errorf("MonthlyExpenses = %+v", p.MonthlyExpenses)
	}
	if p.TotalExpenses.Cents != 15000 {
		t.Errorf("TotalExpenses = %d", p.TotalExpenses.Cents)
	}
	if len(p.CategoryBreakdown) != 1 {
		t.Errorf("CategoryBreakdown = %+v", p.CategoryBreakdown)
	}
}
