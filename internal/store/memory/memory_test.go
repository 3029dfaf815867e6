package memory

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finsight/internal/core"
	"finsight/internal/store"
)

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 3, 5),
		Type:     core.TxExpense,
		Amount:   core.Money{Cents: 80000},
		Category: "rent",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected assigned id")
	}

	got, err := s.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "rent" || got.Amount.Cents != 80000 {
		t.Fatalf("unexpected transaction: %+v", got)
	}

	list, err := s.ListTransactions(ctx, "2024-03")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: err=%v len=%d", err, len(list))
	}
	other, _ := s.ListTransactions(ctx, "2024-04")
	if len(other) != 0 {
		t.Fatalf("expected no april transactions, got %d", len(other))
	}

	if err := s.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), core.Transaction{
		Date:     core.NewDate(2024, 3, 5),
		Type:     "transfer",
		Amount:   core.Money{Cents: 1},
		Category: "x",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestGoalLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateGoal(ctx, core.Goal{
		Name:    "Emergency Fund",
		Current: core.Money{Cents: 50000},
		Target:  core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	g, err := s.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	g.Current = core.Money{Cents: 60000}
	if err := s.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}

	goals, _ := s.ListGoals(ctx)
	if len(goals) != 1 || goals[0].Current.Cents != 60000 {
		t.Fatalf("unexpected goals: %+v", goals)
	}

	if err := s.DeleteGoal(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.UpdateGoal(ctx, g); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDigestUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()

	d := core.MonthlyDigest{Month: "2024-03", IncomeCents: 300000, ExpenseCents: 80000}
	if err := s.UpsertDigest(ctx, d); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	d.ExpenseCents = 90000
	if err := s.UpsertDigest(ctx, d); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetDigest(ctx, "2024-03")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ExpenseCents != 90000 {
		t.Fatalf("expected replaced digest, got %+v", got)
	}

	if _, err := s.GetDigest(ctx, "2024-04"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.UpsertDigest(ctx, core.MonthlyDigest{Month: "bogus"}); err == nil {
		t.Fatalf("expected invalid month error")
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()

	txs := []seedTransaction{
		{Date: "2024-03-01", Type: "income", Amount: "3000", Category: "salary"},
		{Date: "2024-03-05", Type: "expense", Amount: "800", Category: "rent"},
		{Date: "not-a-date", Type: "expense", Amount: "10", Category: "skip"},
		{Date: "2024-03-07", Type: "expense", Amount: "garbage", Category: "degraded"},
	}
	writeJSON(t, filepath.Join(dir, "seed_transactions.json"), txs)
	writeJSON(t, filepath.Join(dir, "seed_goals.json"), []seedGoal{
		{Name: "Emergency Fund", Current: "500", Target: "1000"},
	})

	s := NewFromFiles(dir)
	list, _ := s.ListTransactions(context.Background(), "2024-03")
	if len(list) != 3 {
		t.Fatalf("expected 3 seeded transactions, got %d", len(list))
	}
	for _, tx := range list {
		if tx.Category == "degraded" && tx.Amount.Cents != 0 {
			t.Fatalf("expected malformed amount to degrade to 0, got %d", tx.Amount.Cents)
		}
	}

	goals, _ := s.ListGoals(context.Background())
	if len(goals) != 1 || goals[0].Name != "Emergency Fund" {
		t.Fatalf("unexpected goals: %+v", goals)
	}
}

func TestNewFromFilesMissingDir(t *testing.T) {
	s := NewFromFiles(filepath.Join(t.TempDir(), "nope"))
	list, _ := s.ListTransactions(context.Background(), "2024-03")
	if len(list) != 0 {
		t.Fatalf("expected empty store, got %d", len(list))
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
