package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finsight/internal/core"
	"finsight/internal/event"
	"finsight/internal/store"
)

// GoalService persists savings goals. Goal changes are stamped with the
// current month because goals are not tied to any one month.
type GoalService struct {
	store     store.GoalStore
	publisher Publisher
	now       func() time.Time
}

func NewGoalService(st store.GoalStore, publisher Publisher) *GoalService {
	return &GoalService{store: st, publisher: publisher, now: time.Now}
}

func (s *GoalService) Create(ctx context.Context, g core.Goal) (string, error) {
	id, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return "", fmt.Errorf("save goal: %w", err)
	}

	s.publish(ctx, event.NewChangeMessage(event.KindGoal, event.ActionCreated, id, core.MonthOf(s.now())))
	return id, nil
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *GoalService) Update(ctx context.Context, g core.Goal) error {
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return err
	}

	s.publish(ctx, event.NewChangeMessage(event.KindGoal, event.ActionUpdated, g.ID, core.MonthOf(s.now())))
	return nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, event.NewChangeMessage(event.KindGoal, event.ActionDeleted, id, core.MonthOf(s.now())))
	return nil
}

func (s *GoalService) publish(ctx context.Context, msg *event.ChangeMessage) {
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
