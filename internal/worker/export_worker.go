package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mybudget/internal/amqp"
	"mybudget/internal/core"
)

// Exporter runs a monthly export for one owner.
type Exporter interface {
	ExportMonthly(ctx context.Context, ownerID, month string) (string, error)
}

// ExportWorker consumes export requests and runs the export against the
// report service. Each export runs under its own timeout so one stuck
// spreadsheet call cannot wedge the consumer.
type ExportWorker struct {
	exporter Exporter
	timeout  time.Duration
}

func NewExportWorker(exporter Exporter, timeout time.Duration) *ExportWorker {
	return &ExportWorker{
		exporter: exporter,
		timeout:  timeout,
	}
}

// HandleExportRequest processes a single export request message
func (w *ExportWorker) HandleExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	slog.InfoContext(ctx, "Processing export request",
		"owner_id", msg.OwnerID,
		"month", msg.Month,
		"requested_at", msg.RequestedAt.Format(time.RFC3339))

	if msg.OwnerID == "" {
		return fmt.Errorf("export request without owner: %w", amqp.ErrUnprocessable)
	}
	if !core.ValidMonthKey(msg.Month) {
		return fmt.Errorf("export request for %q: %w: %w", msg.Month, core.ErrInvalidMonthKey, amqp.ErrUnprocessable)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ref, err := w.exporter.ExportMonthly(ctx, msg.OwnerID, msg.Month)
	if err != nil {
		return fmt.Errorf("export %s for %s: %w", msg.Month, msg.OwnerID, err)
	}

	slog.InfoContext(ctx, "Export request completed",
		"owner_id", msg.OwnerID,
		"month", msg.Month,
		"ref", ref,
		"latency", time.Since(msg.RequestedAt).Round(time.Millisecond))

	return nil
}

// Run consumes export requests from the client until ctx is done.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeExportRequests(ctx, func(msg *amqp.ExportRequestMessage) error {
		return w.HandleExportRequest(ctx, msg)
	})
}
