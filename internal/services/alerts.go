package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"spendsense/internal/core"
)

// Alerts compares per-category monthly spend against budget limits.
type Alerts struct {
	ledger  Ledger
	budgets BudgetStore
}

func NewAlerts(ledger Ledger, budgets BudgetStore) *Alerts {
	return &Alerts{ledger: ledger, budgets: budgets}
}

// OverBudget returns every budgeted category whose spend in the calendar
// month containing forDate exceeds its limit, most over-budget first. A
// budget with no matching spend this month is simply never over. Ordering
// among equal over_by values is not guaranteed.
func (s *Alerts) OverBudget(ctx context.Context, forDate time.Time) ([]core.AlertRow, error) {
	start, end := core.MonthBounds(forDate)

	budgets, err := s.budgets.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []core.AlertRow{}, nil
	}

	spendRows, err := s.ledger.ExpenseByCategory(ctx, &start, &end, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("month spend by category: %w", err)
	}
	spent := make(map[string]int64, len(spendRows))
	for _, row := range spendRows {
		if row.Category.Valid {
			spent[row.Category.String] = row.ExpenseCents
		}
	}

	alerts := []core.AlertRow{}
	for _, b := range budgets {
		spentCents := spent[b.Category] // 0 when no spend this month
		if spentCents <= b.MonthlyLimit.Cents {
			continue
		}
		alerts = append(alerts, core.AlertRow{
			Category:     b.Category,
			MonthlyLimit: b.MonthlyLimit,
			Spent:        core.Money{Cents: spentCents},
			OverBy:       core.Money{Cents: spentCents - b.MonthlyLimit.Cents},
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].OverBy.Cents > alerts[j].OverBy.Cents
	})
	return alerts, nil
}
