// Package worker recomputes monthly digests when data changes and
// mirrors them to the external report.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finsight/internal/core"
	"finsight/internal/event"
	"finsight/internal/export"
	"finsight/internal/insights"
	"finsight/internal/store"
)

// DigestWorker rebuilds a month's digest from storage whenever a change
// message names that month. The digest is upserted locally first; the
// report append is best effort.
type DigestWorker struct {
	store       store.Store
	writer      export.DigestWriter
	budgetCents int64
	now         func() time.Time
}

// NewDigestWorker creates a worker. writer may be nil when no report is
// configured.
func NewDigestWorker(st store.Store, writer export.DigestWriter, budgetCents int64) *DigestWorker {
	return &DigestWorker{
		store:       st,
		writer:      writer,
		budgetCents: budgetCents,
		now:         time.Now,
	}
}

// HandleChange processes one change message. Returning an error requeues
// the message, so only storage failures propagate.
func (w *DigestWorker) HandleChange(ctx context.Context, msg *event.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change message",
		"kind", msg.Kind,
		"action", msg.Action,
		"id", msg.ID,
		"month", msg.Month)

	if err := msg.Month.Validate(); err != nil {
		slog.WarnContext(ctx, "Change message carries invalid month, falling back to current",
			"month", msg.Month)
		msg.Month = core.MonthOf(w.now())
	}

	return w.RecomputeMonth(ctx, msg.Month)
}

// RecomputeMonth derives the digest for one month and persists it.
func (w *DigestWorker) RecomputeMonth(ctx context.Context, month core.Month) error {
	txs, err := w.store.ListTransactions(ctx, month)
	if err != nil {
		return fmt.Errorf("list transactions for %s: %w", month, err)
	}

	metrics := insights.ComputeMetrics(txs, month, w.budgetCents)
	categories := insights.BuildCategoryBreakdown(txs, month)

	topCategory := ""
	if len(categories) > 0 {
		topCategory = categories[0].Name
	}

	digest := core.MonthlyDigest{
		Month:        month,
		IncomeCents:  metrics.IncomeCents,
		ExpenseCents: metrics.ExpenseCents,
		SavingsRate:  metrics.SavingsRate,
		UsedPercent:  metrics.UsedPercent,
		TopCategory:  topCategory,
		GeneratedAt:  w.now().UTC(),
	}

	if err := w.store.UpsertDigest(ctx, digest); err != nil {
		return fmt.Errorf("upsert digest for %s: %w", month, err)
	}

	slog.InfoContext(ctx, "Digest recomputed",
		"month", month,
		"income_cents", digest.IncomeCents,
		"expense_cents", digest.ExpenseCents,
		"top_category", digest.TopCategory)

	// Report append failures must not requeue the message; the digest
	// is already persisted.
	if w.writer != nil {
		if _, err := w.writer.AppendDigest(ctx, digest); err != nil {
			slog.ErrorContext(ctx, "Failed to append digest to report",
				"month", month, "error", err)
		}
	}

	return nil
}

// RunPeriodic recomputes the current month on every tick until ctx is
// cancelled. It is a safety net for lost change messages.
func (w *DigestWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			month := core.MonthOf(w.now())
			if err := w.RecomputeMonth(ctx, month); err != nil {
				slog.ErrorContext(ctx, "Periodic digest recompute failed",
					"month", month, "error", err)
			}
		}
	}
}
