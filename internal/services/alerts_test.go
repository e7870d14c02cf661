package services

import (
	"context"
	"testing"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

func TestOverBudgetAlert(t *testing.T) {
	// Budget dining_out 30.00; two expenses this month of 20.00 and 25.00.
	budgets := &fakeBudgetStore{budgets: []core.Budget{
		{ID: 1, Category: "dining_out", MonthlyLimit: core.Money{Cents: 3000}, Currency: "EUR"},
	}}
	ledger := &fakeLedger{categories: []storage.CategorySum{
		{Category: validString("dining_out"), ExpenseCents: 4500},
	}}
	s := NewAlerts(ledger, budgets)

	got, err := s.OverBudget(context.Background(), time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverBudget: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	alert := got[0]
	if alert.Category != "dining_out" {
		t.Fatalf("unexpected category %q", alert.Category)
	}
	if alert.MonthlyLimit.String() != "30.00" || alert.Spent.String() != "45.00" || alert.OverBy.String() != "15.00" {
		t.Fatalf("unexpected alert amounts: %+v", alert)
	}

	// The spend query must cover exactly the month of the reference date.
	if core.FormatDate(*ledger.catFrom) != "2026-09-01" || core.FormatDate(*ledger.catTo) != "2026-09-30" {
		t.Fatalf("expected September bounds, got [%s, %s]",
			core.FormatDate(*ledger.catFrom), core.FormatDate(*ledger.catTo))
	}
}

func TestOverBudgetWithinLimitIsSilent(t *testing.T) {
	budgets := &fakeBudgetStore{budgets: []core.Budget{
		{ID: 1, Category: "groceries", MonthlyLimit: core.Money{Cents: 40000}, Currency: "EUR"},
	}}
	ledger := &fakeLedger{categories: []storage.CategorySum{
		{Category: validString("groceries"), ExpenseCents: 40000}, // exactly at the limit
	}}
	s := NewAlerts(ledger, budgets)

	got, err := s.OverBudget(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverBudget: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("spend equal to limit must not alert, got %+v", got)
	}
}

func TestOverBudgetNoSpendTreatedAsZero(t *testing.T) {
	budgets := &fakeBudgetStore{budgets: []core.Budget{
		{ID: 1, Category: "travel", MonthlyLimit: core.Money{Cents: 10000}, Currency: "EUR"},
	}}
	s := NewAlerts(&fakeLedger{}, budgets)

	got, err := s.OverBudget(context.Background(), time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverBudget: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("budget with no spend must never be over, got %+v", got)
	}
}

func TestOverBudgetSortedByOverByDescending(t *testing.T) {
	budgets := &fakeBudgetStore{budgets: []core.Budget{
		{ID: 1, Category: "dining_out", MonthlyLimit: core.Money{Cents: 3000}, Currency: "EUR"},
		{ID: 2, Category: "shopping", MonthlyLimit: core.Money{Cents: 5000}, Currency: "EUR"},
		{ID: 3, Category: "entertainment", MonthlyLimit: core.Money{Cents: 2000}, Currency: "EUR"},
	}}
	ledger := &fakeLedger{categories: []storage.CategorySum{
		{Category: validString("dining_out"), ExpenseCents: 4000},    // over by 10.00
		{Category: validString("shopping"), ExpenseCents: 15000},     // over by 100.00
		{Category: validString("entertainment"), ExpenseCents: 4500}, // over by 25.00
	}}
	s := NewAlerts(ledger, budgets)

	got, err := s.OverBudget(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverBudget: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].OverBy.Cents > got[i-1].OverBy.Cents {
			t.Fatalf("alerts not sorted by descending over_by: %+v", got)
		}
	}
	if got[0].Category != "shopping" {
		t.Fatalf("expected shopping first, got %q", got[0].Category)
	}
}

func TestOverBudgetNoBudgetsIsEmptyNotError(t *testing.T) {
	s := NewAlerts(&fakeLedger{}, &fakeBudgetStore{})
	got, err := s.OverBudget(context.Background(), time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("OverBudget: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty alert list, got %+v", got)
	}
}
