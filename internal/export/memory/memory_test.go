package memory

import (
	"context"
	"testing"

	"mybudget/internal/core"
	"mybudget/internal/report"
)

func TestExportMonthly(t *testing.T) {
	s := New()

	ref, err := s.ExportMonthly(context.Background(), "local", report.ExportPayload{
		Month:  "2025-03",
		Totals: report.Summary{TotalExpense: core.Money{Cents: 5000}},
	})
	if err != nil {
		t.Fatalf("ExportMonthly: %v", err)
	}
	if ref != "mem:local/2025-03" {
		t.Errorf("ref = %s", ref)
	}

	p, ok := s.Export("local", "2025-03")
	if !ok {
		t.Fatal("export not stored")
	}
	if p.Totals.TotalExpense.Cents != 5000 {
		t.Errorf("stored payload = %+v", p)
	}

	if _, ok := s.Export("other", "2025-03"); ok {
		t.Error("found export for wrong owner")
	}
}

func TestExportMonthlyOverwritesSameMonth(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.ExportMonthly(ctx, "local", report.ExportPayload{Month: "2025-03"})
	s.ExportMonthly(ctx, "local", report.ExportPayload{
		Month:  "2025-03",
		Totals: report.Summary{TotalIncome: core.Money{Cents: 100}},
	})

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	p, _ := s.Export("local", "2025-03")
	if p.Totals.TotalIncome.Cents != 100 {
		t.Errorf("latest export not kept: %+v", p)
	}
}
