package services

import (
	"context"
	"strings"

	"spendsense/internal/core"
)

// Budgets manages the per-category monthly limits consumed by the alert
// evaluator. One budget per category; a duplicate create is rejected.
type Budgets struct {
	store BudgetStore
}

func NewBudgets(store BudgetStore) *Budgets {
	return &Budgets{store: store}
}

func (s *Budgets) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Currency == "" {
		b.Currency = core.Currency
	}
	b.Currency = strings.ToUpper(b.Currency)
	b.Category = strings.TrimSpace(b.Category)
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.store.CreateBudget(ctx, b)
}

func (s *Budgets) Get(ctx context.Context, id int64) (core.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

func (s *Budgets) List(ctx context.Context) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx)
}

func (s *Budgets) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Currency == "" {
		b.Currency = core.Currency
	}
	b.Currency = strings.ToUpper(b.Currency)
	b.Category = strings.TrimSpace(b.Category)
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.store.UpdateBudget(ctx, b)
}

func (s *Budgets) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteBudget(ctx, id)
}
