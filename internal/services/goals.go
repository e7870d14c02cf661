package services

import (
	"context"
	"strings"
	"time"

	"spendsense/internal/core"
)

// Goals manages savings targets. The target date must be strictly in the
// future at creation; created_on is set here and immutable after.
type Goals struct {
	store GoalStore

	Now func() time.Time
}

func NewGoals(store GoalStore) *Goals {
	return &Goals{store: store, Now: time.Now}
}

func (s *Goals) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.Currency == "" {
		g.Currency = core.Currency
	}
	g.Currency = strings.ToUpper(g.Currency)
	g.Name = strings.TrimSpace(g.Name)

	now := s.Now()
	if err := g.Validate(now); err != nil {
		return core.Goal{}, err
	}
	g.CreatedOn = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.store.CreateGoal(ctx, g)
}

func (s *Goals) Get(ctx context.Context, id int64) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *Goals) List(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *Goals) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteGoal(ctx, id)
}
