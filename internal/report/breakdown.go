package report

import (
	"sort"

	"mybudget/internal/core"
)

// Synthetic bucket for expense transactions without a category.
const (
	UncategorizedID    = "uncategorized"
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#64748b"
)

// CategoryEntry is one row of the per-category expense breakdown.
type CategoryEntry struct {
	CategoryID       string     `json:"categoryId"`
	Name             string     `json:"categoryName"`
	Color            string     `json:"categoryColor"`
	Total            core.Money `json:"total"`
	Percentage       float64    `json:"percentage"`
	TransactionCount int        `json:"transactionCount"`
}

// CategoryIndex resolves category ids to their display attributes.
type CategoryIndex map[string]core.Category

// IndexCategories builds a lookup table over a category snapshot.
func IndexCategories(cats []core.Category) CategoryIndex {
	idx := make(CategoryIndex, len(cats))
	for _, c := range cats {
		idx[c.ID] = c
	}
	return idx
}

// Breakdown groups the window's expense transactions by category. Entries are
// sorted descending by total; categories with equal totals keep the order in
// which they were first encountered. The totals of all entries sum to the
// window's total expense.
func Breakdown(txs []core.Transaction, cats CategoryIndex, w Window) []CategoryEntry {
	var totalExpense int64
	byID := make(map[string]*CategoryEntry)
	var order []string // first-seen order, the sort tiebreaker

	for _, t := range txs {
		if t.Type != core.Expense || !w.Contains(t.Date) {
			continue
		}
		totalExpense += t.Amount.Cents

		id := UncategorizedID
		name := UncategorizedName
		color := UncategorizedColor
		if catID, ok := t.Category.ID(); ok {
			id = catID
			if cat, found := cats[catID]; found {
				name = cat.Name
				color = cat.Color
			}
		}

		entry, seen := byID[id]
		if !seen {
			entry = &CategoryEntry{CategoryID: id, Name: name, Color: color}
			byID[id] = entry
			order = append(order, id)
		}
		entry.Total = entry.Total.Add(t.Amount)
		entry.TransactionCount++
	}

	result := make([]CategoryEntry, 0, len(order))
	for _, id := range order {
		e := *byID[id]
		e.Percentage = core.Round1Percent(e.Total.Cents, totalExpense)
		result = append(result, e)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.Cents > result[j].Total.Cents
	})
	return result
}
