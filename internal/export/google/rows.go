package google

import (
	"mybudget/internal/report"
)

// BuildRows flattens an export payload into spreadsheet rows: a totals block,
// the transaction list, category totals and budget-vs-actual, separated by
// blank rows.
func BuildRows(ownerID string, p report.ExportPayload) [][]any {
	rows := [][]any{
		{"Monthly Report", p.Month, "Owner", ownerID},
		{},
		{"Total Income", p.Totals.TotalIncome.Float()},
		{"Total Expenses", p.Totals.TotalExpense.Float()},
		{"Net Savings", p.Totals.NetSavings.Float()},
		{},
		{"Date", "Description", "Category", "Type", "Amount", "Payment Method"},
	}

	for _, t := range p.Transactions {
		rows = append(rows, []any{
			t.Date.Format("2006-01-02"),
			t.Description,
			t.CategoryName,
			t.Type,
			t.Amount.Float(),
			t.PaymentMethod,
		})
	}

	rows = append(rows, []any{}, []any{"Category", "Total", "Share %", "Transactions"})
	for _, e := range p.CategoryTotals {
		rows = append(rows, []any{e.Name, e.Total.Float(), e.Percentage, e.TransactionCount})
	}

	rows = append(rows, []any{}, []any{"Budget", "Limit", "Spent", "Remaining", "Used %", "Status"})
	for _, b := range p.BudgetRows {
		rows = append(rows, []any{
			b.Name,
			b.BudgetAmount.Float(),
			b.Spent.Float(),
			b.Remaining.Float(),
			b.PercentUsed,
			string(b.Status),
		})
	}

	return rows
}
