package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"mybudget/internal/core"
	"mybudget/internal/export"
	"mybudget/internal/report"
)

// Store is the storage surface the report service reads from.
type Store interface {
	ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error)
	TransactionsInRange(ctx context.Context, ownerID string, start, end time.Time) ([]core.Transaction, error)
	ListCategories(ctx context.Context, ownerID string) ([]core.Category, error)
	BudgetsForMonth(ctx context.Context, ownerID, month string) ([]core.Budget, error)
}

// Publisher hands export requests to the async pipeline.
type Publisher interface {
	PublishExportRequest(ctx context.Context, ownerID, month string) error
}

// ReportService assembles monthly reports from storage. Aggregates are
// recomputed per call; nothing is cached between requests.
type ReportService struct {
	store     Store
	exporter  export.ReportExporter
	publisher Publisher
}

func NewReportService(store Store, exporter export.ReportExporter, publisher Publisher) *ReportService {
	return &ReportService{
		store:     store,
		exporter:  exporter,
		publisher: publisher,
	}
}

// monthSnapshot fetches everything one month's aggregation needs, the three
// queries running in parallel.
func (s *ReportService) monthSnapshot(ctx context.Context, ownerID, month string) (report.MonthSnapshot, error) {
	w, err := report.MonthRange(month)
	if err != nil {
		return report.MonthSnapshot{}, err
	}

	snap := report.MonthSnapshot{Month: month}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.store.TransactionsInRange(ctx, ownerID, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		snap.Transactions = txs
		return nil
	})
	g.Go(func() error {
		cats, err := s.store.ListCategories(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		snap.Categories = cats
		return nil
	})
	g.Go(func() error {
		budgets, err := s.store.BudgetsForMonth(ctx, ownerID, month)
		if err != nil {
			return fmt.Errorf("fetch budgets: %w", err)
		}
		snap.Budgets = budgets
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.MonthSnapshot{}, err
	}
	return snap, nil
}

// trendData fetches the transactions of the n months ending at month with a
// single range query, bucketed by month key.
func (s *ReportService) trendData(ctx context.Context, ownerID, month string, n int) (map[string][]core.Transaction, []string, error) {
	w, err := report.MonthRange(month)
	if err != nil {
		return nil, nil, err
	}

	keys := report.LastNMonthKeys(n, w.Start)
	if len(keys) == 0 {
		return nil, nil, nil
	}

	first, err := report.MonthRange(keys[0])
	if err != nil {
		return nil, nil, err
	}

	txs, err := s.store.TransactionsInRange(ctx, ownerID, first.Start, w.End)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch trend transactions: %w", err)
	}

	byMonth := make(map[string][]core.Transaction, len(keys))
	for _, t := range txs {
		key := report.MonthKeyOf(t.Date)
		byMonth[key] = append(byMonth[key], t)
	}
	return byMonth, keys, nil
}

// Dashboard builds the dashboard payload for one owner and month.
func (s *ReportService) Dashboard(ctx context.Context, ownerID, month string) (report.DashboardPayload, error) {
	var (
		snap    report.MonthSnapshot
		byMonth map[string][]core.Transaction
		keys    []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.monthSnapshot(gctx, ownerID, month)
		return err
	})
	g.Go(func() error {
		var err error
		byMonth, keys, err = s.trendData(gctx, ownerID, month, report.TrendMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.DashboardPayload{}, err
	}

	payload, err := report.AssembleDashboard(snap, byMonth, keys)
	if err != nil {
		return report.DashboardPayload{}, fmt.Errorf("assemble dashboard: %w", err)
	}

	slog.InfoContext(ctx, "Dashboard assembled",
		"owner_id", ownerID, "month", month, "transactions", len(snap.Transactions))

	return payload, nil
}

// MonthlyReport builds the full report payload for one owner and month.
func (s *ReportService) MonthlyReport(ctx context.Context, ownerID, month string) (report.MonthlyReportPayload, error) {
	snap, err := s.monthSnapshot(ctx, ownerID, month)
	if err != nil {
		return report.MonthlyReportPayload{}, err
	}

	payload, err := report.AssembleMonthlyReport(snap)
	if err != nil {
		return report.MonthlyReportPayload{}, fmt.Errorf("assemble monthly report: %w", err)
	}
	return payload, nil
}

// PocketReport builds the compact quick-entry report.
func (s *ReportService) PocketReport(ctx context.Context, ownerID, month string) (report.PocketReportPayload, error) {
	var (
		snap    report.MonthSnapshot
		byMonth map[string][]core.Transaction
		keys    []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = s.monthSnapshot(gctx, ownerID, month)
		return err
	})
	g.Go(func() error {
		var err error
		byMonth, keys, err = s.trendData(gctx, ownerID, month, report.TrendMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.PocketReportPayload{}, err
	}

	payload, err := report.AssemblePocketReport(snap, byMonth, keys)
	if err != nil {
		return report.PocketReportPayload{}, fmt.Errorf("assemble pocket report: %w", err)
	}
	return payload, nil
}

// PocketHistory builds the quick-entry spending history over the last twelve
// months ending at the current one.
func (s *ReportService) PocketHistory(ctx context.Context, ownerID string) ([]report.PocketHistoryEntry, error) {
	month := report.MonthKeyOf(time.Now())
	byMonth, keys, err := s.trendData(ctx, ownerID, month, report.PocketHistoryMonths)
	if err != nil {
		return nil, err
	}

	entries, err := report.AssemblePocketHistory(byMonth, keys)
	if err != nil {
		return nil, fmt.Errorf("assemble pocket history: %w", err)
	}
	return entries, nil
}

// Overview builds the all-time overview, the two list queries running in
// parallel.
func (s *ReportService) Overview(ctx context.Context, ownerID string) (report.OverviewPayload, error) {
	var (
		txs  []core.Transaction
		cats []core.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.ListTransactions(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cats, err = s.store.ListCategories(gctx, ownerID)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.OverviewPayload{}, err
	}

	payload, err := report.AssembleOverview(txs, cats, time.Now())
	if err != nil {
		return report.OverviewPayload{}, fmt.Errorf("assemble overview: %w", err)
	}
	return payload, nil
}

// ExportMonthly assembles the export payload and hands it to the exporter.
func (s *ReportService) ExportMonthly(ctx context.Context, ownerID, month string) (string, error) {
	if s.exporter == nil {
		return "", fmt.Errorf("no exporter configured")
	}

	snap, err := s.monthSnapshot(ctx, ownerID, month)
	if err != nil {
		return "", err
	}

	payload, err := report.AssembleExport(snap)
	if err != nil {
		return "", fmt.Errorf("assemble export: %w", err)
	}

	ref, err := s.exporter.ExportMonthly(ctx, ownerID, payload)
	if err != nil {
		return "", fmt.Errorf("export monthly report: %w", err)
	}

	slog.InfoContext(ctx, "Monthly report exported",
		"owner_id", ownerID, "month", month, "ref", ref)

	return ref, nil
}

// RequestExport queues an async export, falling back to a synchronous one
// when no publisher is configured.
func (s *ReportService) RequestExport(ctx context.Context, ownerID, month string) error {
	if !core.ValidMonthKey(month) {
		return core.ErrInvalidMonthKey
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "No AMQP publisher configured, exporting synchronously",
			"owner_id", ownerID, "month", month)
		_, err := s.ExportMonthly(ctx, ownerID, month)
		return err
	}

	if err := s.publisher.PublishExportRequest(ctx, ownerID, month); err != nil {
		return fmt.Errorf("queue export request: %w", err)
	}
	return nil
}
