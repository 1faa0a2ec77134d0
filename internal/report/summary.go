package report

import "mybudget/internal/core"

// Summary holds the income/expense totals of one window.
type Summary struct {
	TotalIncome  core.Money `json:"totalIncome"`
	TotalExpense core.Money `json:"totalExpense"`
	NetSavings   core.Money `json:"netSavings"`
}

// Summarize reduces the transactions falling inside the window to their
// per-type totals. Input order is irrelevant; an empty window yields the
// all-zero summary.
func Summarize(txs []core.Transaction, w Window) Summary {
	var s Summary
	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case core.Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
		}
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
