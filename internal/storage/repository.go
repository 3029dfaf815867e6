// Package storage implements the store ports on SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finsight/internal/core"
	"finsight/internal/store"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	err := r.queries.CreateTransaction(ctx, transactionRow{
		ID:          tx.ID,
		Date:        tx.Date.ISO(),
		Type:        string(tx.Type),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Description: tx.Description,
	})
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"type", tx.Type,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category,
		"date", tx.Date.ISO())

	return tx.ID, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, month core.Month) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByMonth(ctx, month.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return rowToTransaction(row)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	err := r.queries.CreateGoal(ctx, goalRow{
		ID:           g.ID,
		Name:         g.Name,
		CurrentCents: g.Current.Cents,
		TargetCents:  g.Target.Cents,
	})
	if err != nil {
		return "", fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", g.ID, "name", g.Name, "target_cents", g.Target.Cents)
	return g.ID, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToGoal(row))
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return rowToGoal(row), nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	affected, err := r.queries.UpdateGoal(ctx, goalRow{
		ID:           g.ID,
		Name:         g.Name,
		CurrentCents: g.Current.Cents,
		TargetCents:  g.Target.Cents,
	})
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteGoal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) UpsertDigest(ctx context.Context, d core.MonthlyDigest) error {
	if err := d.Month.Validate(); err != nil {
		return err
	}
	err := r.queries.UpsertDigest(ctx, d.Month.String(),
		d.IncomeCents, d.ExpenseCents, d.SavingsRate, d.UsedPercent, d.TopCategory, d.GeneratedAt)
	if err != nil {
		return fmt.Errorf("upsert digest: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDigest(ctx context.Context, month core.Month) (core.MonthlyDigest, error) {
	row, err := r.queries.GetDigest(ctx, month.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyDigest{}, store.ErrNotFound
	}
	if err != nil {
		return core.MonthlyDigest{}, fmt.Errorf("get digest: %w", err)
	}
	return core.MonthlyDigest{
		Month:        core.Month(row.Month),
		IncomeCents:  row.IncomeCents,
		ExpenseCents: row.ExpenseCents,
		SavingsRate:  row.SavingsRate,
		UsedPercent:  row.UsedPercent,
		TopCategory:  row.TopCategory,
		GeneratedAt:  row.GeneratedAt,
	}, nil
}

func rowToTransaction(row transactionRow) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Date:        date,
		Type:        core.TransactionType(row.Type),
		Amount:      core.Money{Cents: row.AmountCents},
		Category:    row.Category,
		Description: row.Description,
	}, nil
}

func rowToGoal(row goalRow) core.Goal {
	return core.Goal{
		ID:      row.ID,
		Name:    row.Name,
		Current: core.Money{Cents: row.CurrentCents},
		Target:  core.Money{Cents: row.TargetCents},
	}
}
