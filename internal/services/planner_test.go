package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

func TestPlanGoalFeasible(t *testing.T) {
	// Goal 300.00 due in ~90 days with one month of history netting
	// 1000.00 - 400.00 - 200.00 = 400.00.
	ledger := &fakeLedger{
		months: []storage.MonthSum{
			{Month: "2026-08", IncomeCents: 100000, ExpenseCents: 60000},
		},
		categories: []storage.CategorySum{
			{Category: validString("dining_out"), ExpenseCents: 20000},
		},
	}
	p := NewPlanner(ledger)
	p.Now = fixedNow(2026, time.September, 15)

	targetDate := time.Date(2026, time.December, 14, 0, 0, 0, 0, time.UTC) // today + 90 days
	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 30000}, targetDate, 1)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}

	if plan.MonthsRemaining != 4 {
		t.Fatalf("expected 4 months remaining (current + 3 full), got %d", plan.MonthsRemaining)
	}
	if plan.RequiredMonthlySave.String() != "75.00" {
		t.Fatalf("expected required 75.00, got %s", plan.RequiredMonthlySave.String())
	}
	if plan.AvgMonthlyNetSaving.String() != "400.00" {
		t.Fatalf("expected avg 400.00, got %s", plan.AvgMonthlyNetSaving.String())
	}
	if !plan.Feasible {
		t.Fatal("expected feasible plan")
	}
	if plan.MonthlyShortfall.String() != "0.00" {
		t.Fatalf("feasible plan must have zero shortfall, got %s", plan.MonthlyShortfall.String())
	}
	if plan.ProjectedMonths == nil || *plan.ProjectedMonths != 1 {
		t.Fatalf("expected projection of 1 month, got %v", plan.ProjectedMonths)
	}
	if plan.ProjectedMonth == nil || *plan.ProjectedMonth != "2026-09" {
		t.Fatalf("expected projected month 2026-09, got %v", plan.ProjectedMonth)
	}
	if plan.HistoryMonthsUsed != 1 {
		t.Fatalf("expected history_months_used 1, got %d", plan.HistoryMonthsUsed)
	}
	if len(plan.SuggestedCutTargets) != 1 || *plan.SuggestedCutTargets[0].Category != "dining_out" {
		t.Fatalf("unexpected cut targets: %+v", plan.SuggestedCutTargets)
	}
	// Cut targets come from the controllable/unnecessary buckets of the
	// current month only.
	if len(ledger.catBuckets) != 2 || ledger.catLimit != 5 {
		t.Fatalf("cut target query not restricted as expected: buckets=%v limit=%d",
			ledger.catBuckets, ledger.catLimit)
	}
	if core.FormatDate(*ledger.catFrom) != "2026-09-01" || core.FormatDate(*ledger.catTo) != "2026-09-30" {
		t.Fatalf("cut target span must be the current month, got [%s, %s]",
			core.FormatDate(*ledger.catFrom), core.FormatDate(*ledger.catTo))
	}
}

func TestPlanGoalTargetWithinCurrentMonth(t *testing.T) {
	p := NewPlanner(&fakeLedger{})
	p.Now = fixedNow(2026, time.September, 15)

	// Target later in the same month: exactly 1 month, never 0.
	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 10000},
		time.Date(2026, time.September, 28, 0, 0, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}
	if plan.MonthsRemaining != 1 {
		t.Fatalf("expected months_remaining 1, got %d", plan.MonthsRemaining)
	}
	if plan.RequiredMonthlySave.String() != "100.00" {
		t.Fatalf("expected required 100.00, got %s", plan.RequiredMonthlySave.String())
	}
}

func TestPlanGoalNegativeAverageNeverFeasible(t *testing.T) {
	ledger := &fakeLedger{months: []storage.MonthSum{
		{Month: "2026-08", IncomeCents: 50000, ExpenseCents: 90000},
		{Month: "2026-07", IncomeCents: 50000, ExpenseCents: 70000},
	}}
	p := NewPlanner(ledger)
	p.Now = fixedNow(2026, time.September, 15)

	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 100},
		time.Date(2027, time.September, 1, 0, 0, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}
	if plan.Feasible {
		t.Fatal("negative average must never be feasible, however small the target")
	}
	if plan.AvgMonthlyNetSaving.String() != "-300.00" {
		t.Fatalf("expected avg -300.00, got %s", plan.AvgMonthlyNetSaving.String())
	}
	if plan.ProjectedMonths != nil || plan.ProjectedMonth != nil {
		t.Fatalf("no projection possible with non-positive average, got %v / %v",
			plan.ProjectedMonths, plan.ProjectedMonth)
	}
	if plan.MonthlyShortfall.Cents <= 0 {
		t.Fatalf("expected positive shortfall, got %s", plan.MonthlyShortfall.String())
	}
}

func TestPlanGoalNoHistoryAveragesToZero(t *testing.T) {
	p := NewPlanner(&fakeLedger{})
	p.Now = fixedNow(2026, time.September, 15)

	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 30000},
		time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}
	if plan.AvgMonthlyNetSaving.String() != "0.00" {
		t.Fatalf("expected avg 0.00 with no history, got %s", plan.AvgMonthlyNetSaving.String())
	}
	if plan.Feasible {
		t.Fatal("zero average must not be feasible")
	}
	if plan.MonthlyShortfall.String() != plan.RequiredMonthlySave.String() {
		t.Fatalf("shortfall should equal required rate, got %s vs %s",
			plan.MonthlyShortfall.String(), plan.RequiredMonthlySave.String())
	}
}

func TestPlanGoalRequiredRateRounding(t *testing.T) {
	// 100.00 over 3 months: 33.333... rounds half-up to 33.33.
	p := NewPlanner(&fakeLedger{})
	p.Now = fixedNow(2026, time.September, 15)

	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 10000},
		time.Date(2026, time.November, 20, 0, 0, 0, 0, time.UTC), 6)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}
	if plan.MonthsRemaining != 3 {
		t.Fatalf("expected 3 months remaining, got %d", plan.MonthsRemaining)
	}
	if plan.RequiredMonthlySave.String() != "33.33" {
		t.Fatalf("expected 33.33, got %s", plan.RequiredMonthlySave.String())
	}
}

func TestPlanGoalDefaultsHistoryWindow(t *testing.T) {
	ledger := &fakeLedger{}
	p := NewPlanner(ledger)
	p.Now = fixedNow(2026, time.September, 15)

	plan, err := p.PlanGoal(context.Background(), core.Money{Cents: 10000},
		time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), 0)
	if err != nil {
		t.Fatalf("PlanGoal: %v", err)
	}
	if plan.HistoryMonthsUsed != HistoryMonthsDefault {
		t.Fatalf("expected default history window %d, got %d", HistoryMonthsDefault, plan.HistoryMonthsUsed)
	}
	if ledger.monthsRequested != HistoryMonthsDefault {
		t.Fatalf("expected ledger asked for %d months, got %d", HistoryMonthsDefault, ledger.monthsRequested)
	}
}

func TestPlanGoalRejectsBadInputs(t *testing.T) {
	p := NewPlanner(&fakeLedger{})
	p.Now = fixedNow(2026, time.September, 15)
	future := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	if _, err := p.PlanGoal(context.Background(), core.Money{}, future, 6); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("zero target expected ErrInvalidAmount, got %v", err)
	}
	if _, err := p.PlanGoal(context.Background(), core.Money{Cents: 100}, future, 25); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("history_months=25 expected ErrOutOfRange, got %v", err)
	}
	// Target month before the current one must never reach the division.
	past := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	if _, err := p.PlanGoal(context.Background(), core.Money{Cents: 100}, past, 6); !errors.Is(err, core.ErrTargetDatePast) {
		t.Fatalf("past target expected ErrTargetDatePast, got %v", err)
	}
}
