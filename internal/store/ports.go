// Package store defines the ports the rest of the application uses to
// reach persisted transactions, goals and digests.
package store

import (
	"context"
	"errors"

	"finsight/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

type (
	TransactionStore interface {
		// CreateTransaction persists a transaction and returns its assigned ID.
		CreateTransaction(ctx context.Context, tx core.Transaction) (string, error)

		// ListTransactions returns the transactions of one month in
		// insertion order.
		ListTransactions(ctx context.Context, month core.Month) ([]core.Transaction, error)

		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) (string, error)

		// ListGoals returns all goals in insertion order.
		ListGoals(ctx context.Context) ([]core.Goal, error)

		GetGoal(ctx context.Context, id string) (core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id string) error
	}

	DigestStore interface {
		// UpsertDigest inserts or replaces the digest for its month.
		UpsertDigest(ctx context.Context, d core.MonthlyDigest) error
		GetDigest(ctx context.Context, month core.Month) (core.MonthlyDigest, error)
	}

	// Store is the full bundle a backend provides.
	Store interface {
		TransactionStore
		GoalStore
		DigestStore
	}
)
