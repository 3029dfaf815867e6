package storage

import (
	"context"
	"database/sql"
	"time"
)

// Queries wraps raw SQL access. Repository methods translate between
// these rows and core types.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

type transactionRow struct {
	ID          string
	Date        string
	Type        string
	AmountCents int64
	Category    string
	Description string
}

type goalRow struct {
	ID           string
	Name         string
	CurrentCents int64
	TargetCents  int64
}

const createTransaction = `
INSERT INTO transactions (id, date, type, amount_cents, category, description)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTransaction(ctx context.Context, row transactionRow) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		row.ID, row.Date, row.Type, row.AmountCents, row.Category, row.Description)
	return err
}

const getTransaction = `
SELECT id, date, type, amount_cents, category, description
FROM transactions WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id string) (transactionRow, error) {
	var row transactionRow
	err := q.db.QueryRowContext(ctx, getTransaction, id).Scan(
		&row.ID, &row.Date, &row.Type, &row.AmountCents, &row.Category, &row.Description)
	return row, err
}

// Month filtering is a literal prefix match on the ISO date column, the
// same rule the insights engine applies in memory.
const listTransactionsByMonth = `
SELECT id, date, type, amount_cents, category, description
FROM transactions
WHERE substr(date, 1, 7) = ?
ORDER BY rowid
`

func (q *Queries) ListTransactionsByMonth(ctx context.Context, month string) ([]transactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByMonth, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []transactionRow
	for rows.Next() {
		var row transactionRow
		if err := rows.Scan(&row.ID, &row.Date, &row.Type, &row.AmountCents, &row.Category, &row.Description); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const createGoal = `
INSERT INTO goals (id, name, current_cents, target_cents)
VALUES (?, ?, ?, ?)
`

func (q *Queries) CreateGoal(ctx context.Context, row goalRow) error {
	_, err := q.db.ExecContext(ctx, createGoal, row.ID, row.Name, row.CurrentCents, row.TargetCents)
	return err
}

const getGoal = `
SELECT id, name, current_cents, target_cents FROM goals WHERE id = ?
`

func (q *Queries) GetGoal(ctx context.Context, id string) (goalRow, error) {
	var row goalRow
	err := q.db.QueryRowContext(ctx, getGoal, id).Scan(&row.ID, &row.Name, &row.CurrentCents, &row.TargetCents)
	return row, err
}

const listGoals = `
SELECT id, name, current_cents, target_cents FROM goals ORDER BY rowid
`

func (q *Queries) ListGoals(ctx context.Context) ([]goalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []goalRow
	for rows.Next() {
		var row goalRow
		if err := rows.Scan(&row.ID, &row.Name, &row.CurrentCents, &row.TargetCents); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const updateGoal = `
UPDATE goals SET name = ?, current_cents = ?, target_cents = ? WHERE id = ?
`

func (q *Queries) UpdateGoal(ctx context.Context, row goalRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoal, row.Name, row.CurrentCents, row.TargetCents, row.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteGoal = `DELETE FROM goals WHERE id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertDigest = `
INSERT INTO monthly_digests (month, income_cents, expense_cents, savings_rate, used_percent, top_category, generated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(month) DO UPDATE SET
    income_cents = excluded.income_cents,
    expense_cents = excluded.expense_cents,
    savings_rate = excluded.savings_rate,
    used_percent = excluded.used_percent,
    top_category = excluded.top_category,
    generated_at = excluded.generated_at
`

func (q *Queries) UpsertDigest(ctx context.Context, month string, incomeCents, expenseCents int64, savingsRate, usedPercent float64, topCategory string, generatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, upsertDigest,
		month, incomeCents, expenseCents, savingsRate, usedPercent, topCategory, generatedAt.UTC())
	return err
}

type digestRow struct {
	Month        string
	IncomeCents  int64
	ExpenseCents int64
	SavingsRate  float64
	UsedPercent  float64
	TopCategory  string
	GeneratedAt  time.Time
}

const getDigest = `
SELECT month, income_cents, expense_cents, savings_rate, used_percent, top_category, generated_at
FROM monthly_digests WHERE month = ?
`

func (q *Queries) GetDigest(ctx context.Context, month string) (digestRow, error) {
	var row digestRow
	err := q.db.QueryRowContext(ctx, getDigest, month).Scan(
		&row.Month, &row.IncomeCents, &row.ExpenseCents, &row.SavingsRate,
		&row.UsedPercent, &row.TopCategory, &row.GeneratedAt)
	return row, err
}
