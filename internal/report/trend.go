package report

import "mybudget/internal/core"

// TrendPoint is one month's income/expense pair in a multi-month series.
type TrendPoint struct {
	Period  string     `json:"period"` // month key
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
}

// DailyPoint is one day's expense total in a daily series.
type DailyPoint struct {
	Date   string     `json:"date"` // YYYY-MM-DD
	Amount core.Money `json:"amount"`
}

// MonthlyTrend summarizes each requested month, producing one point per key
// in the order supplied (oldest first by convention). Months absent from
// byMonth yield zero points.
func MonthlyTrend(byMonth map[string][]core.Transaction, monthKeys []string) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0, len(monthKeys))
	for _, key := range monthKeys {
		w, err := MonthRange(key)
		if err != nil {
			return nil, err
		}
		s := Summarize(byMonth[key], w)
		points = append(points, TrendPoint{
			Period:  key,
			Income:  s.TotalIncome,
			Expense: s.TotalExpense,
		})
	}
	return points, nil
}

// DailyTrend sums expense transactions per calendar day of the window. Every
// day appears, including days with zero spend; charts depend on a contiguous
// series with no gaps.
func DailyTrend(txs []core.Transaction, w Window) []DailyPoint {
	const day = "2006-01-02"

	totals := make(map[string]int64)
	for _, t := range txs {
		if t.Type != core.Expense || !w.Contains(t.Date) {
			continue
		}
		totals[t.Date.Format(day)] += t.Amount.Cents
	}

	days := DaysInRange(w)
	points := make([]DailyPoint, 0, len(days))
	for _, d := range days {
		key := d.Format(day)
		points = append(points, DailyPoint{
			Date:   key,
			Amount: core.Money{Cents: totals[key]},
		})
	}
	return points
}
