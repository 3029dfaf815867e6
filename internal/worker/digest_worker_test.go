package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"finsight/internal/core"
	"finsight/internal/event"
	exportmem "finsight/internal/export/memory"
	"finsight/internal/store/memory"
)

func seedMarch(t *testing.T, st *memory.Store) {
	t.Helper()
	ctx := context.Background()
	txs := []core.Transaction{
		{Date: core.NewDate(2024, 3, 1), Type: core.TxIncome, Amount: core.Money{Cents: 300000}, Category: "salary"},
		{Date: core.NewDate(2024, 3, 5), Type: core.TxExpense, Amount: core.Money{Cents: 80000}, Category: "rent"},
		{Date: core.NewDate(2024, 3, 9), Type: core.TxExpense, Amount: core.Money{Cents: 12000}, Category: "food"},
	}
	for _, tx := range txs {
		if _, err := st.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestHandleChangeRecomputesDigest(t *testing.T) {
	st := memory.New()
	seedMarch(t, st)
	writer := exportmem.New()

	w := NewDigestWorker(st, writer, 250000)
	w.now = func() time.Time { return time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC) }

	msg := event.NewChangeMessage(event.KindTransaction, event.ActionCreated, "tx-1", "2024-03")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	d, err := st.GetDigest(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("get digest: %v", err)
	}
	if d.IncomeCents != 300000 || d.ExpenseCents != 92000 {
		t.Fatalf("unexpected totals: %+v", d)
	}
	if d.TopCategory != "rent" {
		t.Fatalf("expected rent as top category, got %q", d.TopCategory)
	}
	if d.UsedPercent < 36.79 || d.UsedPercent > 36.81 {
		t.Fatalf("expected about 36.8%% used, got %f", d.UsedPercent)
	}

	rows := writer.Rows()
	if len(rows) != 1 || rows[0].Month != "2024-03" {
		t.Fatalf("expected one report row for 2024-03, got %+v", rows)
	}
}

func TestHandleChangeUpsertsOnReplay(t *testing.T) {
	st := memory.New()
	seedMarch(t, st)

	w := NewDigestWorker(st, nil, 250000)

	msg := event.NewChangeMessage(event.KindTransaction, event.ActionCreated, "tx-1", "2024-03")
	for i := 0; i < 2; i++ {
		if err := w.HandleChange(context.Background(), msg); err != nil {
			t.Fatalf("handle change %d: %v", i, err)
		}
	}

	d, err := st.GetDigest(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("get digest: %v", err)
	}
	if d.ExpenseCents != 92000 {
		t.Fatalf("replay must not double count: %+v", d)
	}
}

func TestHandleChangeInvalidMonthFallsBack(t *testing.T) {
	st := memory.New()
	w := NewDigestWorker(st, nil, 250000)
	w.now = func() time.Time { return time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC) }

	msg := &event.ChangeMessage{Kind: event.KindGoal, Action: event.ActionUpdated, ID: "g-1", Month: "bogus"}
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	if _, err := st.GetDigest(context.Background(), "2024-04"); err != nil {
		t.Fatalf("expected digest for current month: %v", err)
	}
}

func TestReportFailureDoesNotRequeue(t *testing.T) {
	st := memory.New()
	seedMarch(t, st)

	w := NewDigestWorker(st, failingWriter{}, 250000)

	msg := event.NewChangeMessage(event.KindTransaction, event.ActionCreated, "tx-1", "2024-03")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("report failure must not propagate: %v", err)
	}
	if _, err := st.GetDigest(context.Background(), "2024-03"); err != nil {
		t.Fatalf("digest should still be persisted: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) AppendDigest(context.Context, core.MonthlyDigest) (string, error) {
	return "", errors.New("sheet offline")
}
