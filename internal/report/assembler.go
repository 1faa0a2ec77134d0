package report

import (
	"fmt"
	"sort"
	"time"

	"mybudget/internal/core"
)

// Default truncation limits for the dashboard payload. Truncation is a
// post-sort slice and never affects the underlying totals.
const (
	RecentTransactionLimit = 5
	TopCategoryLimit       = 5
	TrendMonths            = 6
	LatestCategoryLimit    = 8
	PocketHistoryMonths    = 12
)

// MonthSnapshot is the owner-scoped data needed to aggregate one month,
// already fetched and access-controlled by the storage collaborator.
type MonthSnapshot struct {
	Month        string // month key
	Transactions []core.Transaction
	Budgets      []core.Budget
	Categories   []core.Category
}

// TransactionView is the flattened transaction shape used in payloads.
type TransactionView struct {
	ID            string     `json:"id"`
	Amount        core.Money `json:"amount"`
	Type          string     `json:"type"`
	Date          time.Time  `json:"date"`
	Description   string     `json:"description,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
	CategoryID    string     `json:"categoryId,omitempty"`
	CategoryName  string     `json:"categoryName"`
	CategoryColor string     `json:"categoryColor"`
}

// DashboardPayload feeds the dashboard page: current-month summary, top
// spending categories, budget progress, a multi-month trend and the most
// recent transactions.
type DashboardPayload struct {
	Month              string            `json:"currentMonth"`
	Summary            Summary           `json:"summary"`
	RecentTransactions []TransactionView `json:"recentTransactions"`
	BudgetProgress     []BudgetProgress  `json:"budgetProgress"`
	MonthlyTrend       []TrendPoint      `json:"monthlyData"`
	TopCategories      []CategoryEntry   `json:"topCategories"`
}

// MonthlyReportPayload is the full report for one month.
type MonthlyReportPayload struct {
	Month             string           `json:"month"`
	Summary           Summary          `json:"summary"`
	CategoryBreakdown []CategoryEntry  `json:"categoryBreakdown"`
	BudgetSummary     []BudgetProgress `json:"budgetSummary"`
	DailyExpenses     []DailyPoint     `json:"dailyExpenses"`
}

// ExportPayload is the logical row/column content handed to the
// export-format collaborator. The binary spreadsheet/PDF layout is not
// decided here.
type ExportPayload struct {
	Month          string            `json:"month"`
	Transactions   []TransactionView `json:"transactions"` // newest first
	Totals         Summary           `json:"totals"`
	CategoryTotals []CategoryEntry   `json:"categoryTotals"`
	BudgetRows     []BudgetProgress  `json:"budgetRows"`
}

// ActivityPoint is one month's transaction count in the overview chart.
type ActivityPoint struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// CategoryInfo is the compact category shape used by the overview payload.
type CategoryInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// OverviewPayload is the all-time account overview.
type OverviewPayload struct {
	TotalTransactions  int               `json:"totalTransactions"`
	TotalRevenue       core.Money        `json:"totalRevenue"`
	RevenueGrowth      string            `json:"revenueGrowth"` // signed percent vs previous month
	Activity           []ActivityPoint   `json:"activityData"`
	LatestTransactions []TransactionView `json:"latestTransactions"`
	LatestCategories   []CategoryInfo    `json:"latestCategories"`
}

// PocketReportPayload is the compact report used by the mobile quick-entry
// mode: a multi-month expense series plus the current month's breakdown.
type PocketReportPayload struct {
	MonthlyExpenses   []TrendPoint    `json:"monthlyExpenses"`
	CategoryBreakdown []CategoryEntry `json:"categoryBreakdown"`
	TotalExpenses     core.Money      `json:"totalExpenses"`
}

// AssembleDashboard builds the dashboard payload from the current-month
// snapshot plus trend data covering trendKeys (oldest first).
func AssembleDashboard(snap MonthSnapshot, trendByMonth map[string][]core.Transaction, trendKeys []string) (DashboardPayload, error) {
	w, err := MonthRange(snap.Month)
	if err != nil {
		return DashboardPayload{}, err
	}
	cats := IndexCategories(snap.Categories)

	progress, err := Progress(snap.Budgets, snap.Transactions, cats, w)
	if err != nil {
		return DashboardPayload{}, fmt.Errorf("budget progress: %w", err)
	}
	trend, err := MonthlyTrend(trendByMonth, trendKeys)
	if err != nil {
		return DashboardPayload{}, fmt.Errorf("monthly trend: %w", err)
	}

	breakdown := Breakdown(snap.Transactions, cats, w)
	if len(breakdown) > TopCategoryLimit {
		breakdown = breakdown[:TopCategoryLimit]
	}

	return DashboardPayload{
		Month:              snap.Month,
		Summary:            Summarize(snap.Transactions, w),
		RecentTransactions: recentViews(snap.Transactions, cats, w, RecentTransactionLimit),
		BudgetProgress:     progress,
		MonthlyTrend:       trend,
		TopCategories:      breakdown,
	}, nil
}

// AssembleMonthlyReport builds the full report payload for the snapshot's
// month: totals, full category breakdown, budget-vs-actual and the gapless
// daily expense series.
func AssembleMonthlyReport(snap MonthSnapshot) (MonthlyReportPayload, error) {
	w, err := MonthRange(snap.Month)
	if err != nil {
		return MonthlyReportPayload{}, err
	}
	cats := IndexCategories(snap.Categories)

	progress, err := Progress(snap.Budgets, snap.Transactions, cats, w)
	if err != nil {
		return MonthlyReportPayload{}, fmt.Errorf("budget progress: %w", err)
	}

	return MonthlyReportPayload{
		Month:             snap.Month,
		Summary:           Summarize(snap.Transactions, w),
		CategoryBreakdown: Breakdown(snap.Transactions, cats, w),
		BudgetSummary:     progress,
		DailyExpenses:     DailyTrend(snap.Transactions, w),
	}, nil
}

// AssembleExport shapes the same month data for spreadsheet/PDF emission:
// every transaction row, the totals block, category totals with percentages
// and budget-vs-actual with variance.
func AssembleExport(snap MonthSnapshot) (ExportPayload, error) {
	w, err := MonthRange(snap.Month)
	if err != nil {
		return ExportPayload{}, err
	}
	cats := IndexCategories(snap.Categories)

	progress, err := Progress(snap.Budgets, snap.Transactions, cats, w)
	if err != nil {
		return ExportPayload{}, fmt.Errorf("budget progress: %w", err)
	}

	var rows []TransactionView
	for _, t := range snap.Transactions {
		if !w.Contains(t.Date) {
			continue
		}
		rows = append(rows, viewOf(t, cats))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })

	return ExportPayload{
		Month:          snap.Month,
		Transactions:   rows,
		Totals:         Summarize(snap.Transactions, w),
		CategoryTotals: Breakdown(snap.Transactions, cats, w),
		BudgetRows:     progress,
	}, nil
}

// AssembleOverview builds the all-time overview from the owner's complete
// transaction and category snapshots. Growth compares the current month's
// income against the previous month's; a zero previous month reads as 0%.
func AssembleOverview(txs []core.Transaction, categories []core.Category, now time.Time) (OverviewPayload, error) {
	cats := IndexCategories(categories)

	keys := LastNMonthKeys(TrendMonths, now)
	activity := make([]ActivityPoint, 0, len(keys))
	counts := make(map[string]int, len(keys))
	for _, t := range txs {
		counts[MonthKeyOf(t.Date)]++
	}
	for _, key := range keys {
		activity = append(activity, ActivityPoint{Period: key, Count: counts[key]})
	}

	var totalRevenue core.Money
	for _, t := range txs {
		if t.Type == core.Income {
			totalRevenue = totalRevenue.Add(t.Amount)
		}
	}

	currentWindow, err := MonthRange(MonthKeyOf(now))
	if err != nil {
		return OverviewPayload{}, err
	}
	previousWindow, err := MonthRange(PreviousMonthKey(now))
	if err != nil {
		return OverviewPayload{}, err
	}
	currentIncome := Summarize(txs, currentWindow).TotalIncome
	previousIncome := Summarize(txs, previousWindow).TotalIncome

	growth := 0.0
	if previousIncome.Cents > 0 {
		growth = float64(currentIncome.Cents-previousIncome.Cents) / float64(previousIncome.Cents) * 100
	}
	sign := ""
	if growth >= 0 {
		sign = "+"
	}

	all := Window{Start: time.Time{}, End: now.AddDate(100, 0, 0)}
	latest := recentViews(txs, cats, all, RecentTransactionLimit)

	sorted := append([]core.Category(nil), categories...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	if len(sorted) > LatestCategoryLimit {
		sorted = sorted[:LatestCategoryLimit]
	}
	latestCats := make([]CategoryInfo, 0, len(sorted))
	for _, c := range sorted {
		latestCats = append(latestCats, CategoryInfo{
			ID: c.ID, Name: c.Name, Color: c.Color, Type: string(c.Type), CreatedAt: c.CreatedAt,
		})
	}

	return OverviewPayload{
		TotalTransactions:  len(txs),
		TotalRevenue:       totalRevenue,
		RevenueGrowth:      fmt.Sprintf("%s%.1f%%", sign, growth),
		Activity:           activity,
		LatestTransactions: latest,
		LatestCategories:   latestCats,
	}, nil
}

// PocketHistoryEntry is one month of spending in the quick-entry history.
type PocketHistoryEntry struct {
	Month            string     `json:"month"` // display label, e.g. "March 2025"
	TotalAmount      core.Money `json:"totalAmount"`
	TransactionCount int        `json:"transactionCount"`
}

// AssemblePocketHistory reduces the per-month transaction buckets to expense
// totals and counts, newest first. Months with no expenses are skipped.
func AssemblePocketHistory(byMonth map[string][]core.Transaction, monthKeys []string) ([]PocketHistoryEntry, error) {
	out := make([]PocketHistoryEntry, 0, len(monthKeys))
	for i := len(monthKeys) - 1; i >= 0; i-- {
		w, err := MonthRange(monthKeys[i])
		if err != nil {
			return nil, err
		}
		var total core.Money
		count := 0
		for _, t := range byMonth[monthKeys[i]] {
			if t.Type != core.Expense || !w.Contains(t.Date) {
				continue
			}
			total = total.Add(t.Amount)
			count++
		}
		if count == 0 {
			continue
		}
		out = append(out, PocketHistoryEntry{
			Month:            w.Start.Format("January 2006"),
			TotalAmount:      total,
			TransactionCount: count,
		})
	}
	return out, nil
}

// AssemblePocketReport builds the quick-entry report: expense totals for
// trendKeys plus the current month's category breakdown.
func AssemblePocketReport(snap MonthSnapshot, trendByMonth map[string][]core.Transaction, trendKeys []string) (PocketReportPayload, error) {
	w, err := MonthRange(snap.Month)
	if err != nil {
		return PocketReportPayload{}, err
	}
	trend, err := MonthlyTrend(trendByMonth, trendKeys)
	if err != nil {
		return PocketReportPayload{}, fmt.Errorf("monthly trend: %w", err)
	}

	return PocketReportPayload{
		MonthlyExpenses:   trend,
		CategoryBreakdown: Breakdown(snap.Transactions, IndexCategories(snap.Categories), w),
		TotalExpenses:     Summarize(snap.Transactions, w).TotalExpense,
	}, nil
}

func viewOf(t core.Transaction, cats CategoryIndex) TransactionView {
	v := TransactionView{
		ID:            t.ID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Date:          t.Date,
		Description:   t.Description,
		Notes:         t.Notes,
		PaymentMethod: t.PaymentMethod,
		CategoryName:  UncategorizedName,
		CategoryColor: UncategorizedColor,
	}
	if id, ok := t.Category.ID(); ok {
		v.CategoryID = id
		if cat, found := cats[id]; found {
			v.CategoryName = cat.Name
			v.CategoryColor = cat.Color
		}
	}
	return v
}

// recentViews returns the newest transactions of the window, newest first,
// truncated to limit.
func recentViews(txs []core.Transaction, cats CategoryIndex, w Window, limit int) []TransactionView {
	var views []TransactionView
	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		views = append(views, viewOf(t, cats))
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
	if len(views) > limit {
		views = views[:limit]
	}
	return views
}
