package export

import (
	"context"

	"mybudget/internal/report"
)

// ReportExporter is the outbound port for monthly report emission. The
// assembled payload carries the logical rows; implementations decide the
// physical layout.
type ReportExporter interface {
	ExportMonthly(ctx context.Context, ownerID string, payload report.ExportPayload) (ref string, err error)
}
