package report

import (
	"fmt"

	"mybudget/internal/core"
)

// BudgetStatus is the usage tier of one budget within its month.
type BudgetStatus string

const (
	StatusOnTrack    BudgetStatus = "on-track"
	StatusWarning    BudgetStatus = "warning"
	StatusOverBudget BudgetStatus = "over-budget"
)

// Display attributes for overall (unscoped) budgets.
const (
	OverallName  = "Overall"
	OverallColor = "#3b82f6"
)

// BudgetProgress joins one budget against the actual spend of its window.
type BudgetProgress struct {
	BudgetID     string       `json:"id"`
	CategoryID   string       `json:"categoryId,omitempty"` // empty for overall budgets
	Name         string       `json:"categoryName"`
	Color        string       `json:"categoryColor"`
	BudgetAmount core.Money   `json:"budgetAmount"`
	Spent        core.Money   `json:"spent"`
	Remaining    core.Money   `json:"remaining"` // negative when over budget
	PercentUsed  float64      `json:"percentUsed"`
	Status       BudgetStatus `json:"status"`
}

// statusFor maps a usage percentage to its tier.
func statusFor(percentUsed float64) BudgetStatus {
	switch {
	case percentUsed >= 100:
		return StatusOverBudget
	case percentUsed >= 80:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// Progress computes spent/remaining/usage for each budget against the
// window's expense transactions, one entry per budget in input order. A
// category-scoped budget counts only matching expenses; an overall budget is
// a ceiling on the whole month's expense total, not just uncategorized spend.
//
// Budgets are validated at creation time; a non-positive amount here is a
// precondition violation and surfaces as core.ErrInvalidBudget.
func Progress(budgets []core.Budget, txs []core.Transaction, cats CategoryIndex, w Window) ([]BudgetProgress, error) {
	spentByCategory := make(map[string]int64)
	var totalExpense int64
	for _, t := range txs {
		if t.Type != core.Expense || !w.Contains(t.Date) {
			continue
		}
		totalExpense += t.Amount.Cents
		if id, ok := t.Category.ID(); ok {
			spentByCategory[id] += t.Amount.Cents
		}
	}

	result := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		if b.Amount.Cents <= 0 {
			return nil, fmt.Errorf("budget %s: %w", b.ID, core.ErrInvalidBudget)
		}

		p := BudgetProgress{
			BudgetID:     b.ID,
			Name:         OverallName,
			Color:        OverallColor,
			BudgetAmount: b.Amount,
		}

		var spent int64
		if catID, scoped := b.Scope.CategoryID(); scoped {
			spent = spentByCategory[catID]
			p.CategoryID = catID
			p.Name = UncategorizedName
			p.Color = UncategorizedColor
			if cat, ok := cats[catID]; ok {
				p.Name = cat.Name
				p.Color = cat.Color
			}
		} else {
			spent = totalExpense
		}

		p.Spent = core.Money{Cents: spent}
		p.Remaining = b.Amount.Sub(p.Spent)
		p.PercentUsed = core.Round1Percent(spent, b.Amount.Cents)
		p.Status = statusFor(p.PercentUsed)
		result = append(result, p)
	}
	return result, nil
}
