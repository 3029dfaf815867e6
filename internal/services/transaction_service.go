// Package services orchestrates writes across storage and the change
// message broker. Local persistence always wins: a failed publish is
// logged and the request still succeeds.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"finsight/internal/core"
	"finsight/internal/event"
	"finsight/internal/store"
)

// Publisher is the broker surface the services need. A nil Publisher
// means change messages are skipped entirely.
type Publisher interface {
	PublishChange(ctx context.Context, msg *event.ChangeMessage) error
	Close() error
}

// TransactionService persists transactions and notifies the digest
// worker about the affected month.
type TransactionService struct {
	store     store.TransactionStore
	publisher Publisher
}

func NewTransactionService(st store.TransactionStore, publisher Publisher) *TransactionService {
	return &TransactionService{store: st, publisher: publisher}
}

func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	id, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, event.NewChangeMessage(event.KindTransaction, event.ActionCreated, id, core.MonthOf(tx.Date.Time)))
	return id, nil
}

func (s *TransactionService) List(ctx context.Context, month core.Month) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, month)
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	// Fetch first so the change message can carry the month.
	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, event.NewChangeMessage(event.KindTransaction, event.ActionDeleted, id, core.MonthOf(tx.Date.Time)))
	return nil
}

func (s *TransactionService) publish(ctx context.Context, msg *event.ChangeMessage) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping change message",
			"kind", msg.Kind, "action", msg.Action, "id", msg.ID)
		return
	}
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"kind", msg.Kind, "action", msg.Action, "id", msg.ID, "error", err)
	}
}
