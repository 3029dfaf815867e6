package memory

import (
	"context"
	"testing"

	"finsight/internal/core"
)

func TestAppendDigest(t *testing.T) {
	w := New()

	ref, err := w.AppendDigest(context.Background(), core.MonthlyDigest{
		Month:        "2024-03",
		IncomeCents:  300000,
		ExpenseCents: 80000,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("expected synthetic row ref mem:1, got %q", ref)
	}
	if rows := w.Rows(); len(rows) != 1 || rows[0].Month != "2024-03" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestAppendDigestRejectsBadMonth(t *testing.T) {
	w := New()
	if _, err := w.AppendDigest(context.Background(), core.MonthlyDigest{Month: "March"}); err == nil {
		t.Fatalf("expected error for invalid month")
	}
	if len(w.Rows()) != 0 {
		t.Fatalf("invalid digest must not be stored")
	}
}
