package services

import (
	"context"
	"fmt"
	"time"

	"spendsense/internal/core"
)

// Bounds for the goal-planning history window.
const (
	HistoryMonthsDefault = 6
	HistoryMonthsMax     = 24
	cutTargetCount       = 5
)

// Planner decides whether a savings goal is achievable at the recent savings
// pace and quantifies the gap when it is not.
//
// Rounding: required rate and average net saving are quantized to cents with
// half-up rounding (away from zero for negative averages), matching the
// money parser's behavior.
type Planner struct {
	ledger Ledger

	// Now is the clock anchoring the current month. Tests override it.
	Now func() time.Time
}

func NewPlanner(ledger Ledger) *Planner {
	return &Planner{ledger: ledger, Now: time.Now}
}

// PlanGoal combines the goal's target amount and date with the last
// historyMonths of net-savings history. historyMonths zero means the
// default of 6; a window shorter than requested simply averages over what
// exists, and no history at all averages to 0.00.
func (p *Planner) PlanGoal(ctx context.Context, target core.Money, targetDate time.Time, historyMonths int) (core.GoalPlan, error) {
	if err := target.Validate(); err != nil {
		return core.GoalPlan{}, err
	}
	if historyMonths == 0 {
		historyMonths = HistoryMonthsDefault
	}
	if historyMonths < 1 || historyMonths > HistoryMonthsMax {
		return core.GoalPlan{}, fmt.Errorf("%w: history_months %d not in [1, %d]", ErrOutOfRange, historyMonths, HistoryMonthsMax)
	}

	now := p.Now()
	startMonth := core.MonthStart(now)
	endMonth := core.MonthStart(targetDate)

	// Inclusive month count; 1 even when the target falls in the current
	// month. Never allowed to reach the division below as zero or negative.
	monthsRemaining := core.MonthsBetweenInclusive(startMonth, endMonth)
	if monthsRemaining < 1 {
		return core.GoalPlan{}, fmt.Errorf("%w (resolves to %d months remaining)", core.ErrTargetDatePast, monthsRemaining)
	}

	required := core.Money{Cents: core.DivRoundHalfUp(target.Cents, int64(monthsRemaining))}

	history, err := p.ledger.MonthlyTotals(ctx, nil, nil, historyMonths)
	if err != nil {
		return core.GoalPlan{}, fmt.Errorf("monthly net history: %w", err)
	}
	var avg core.Money
	if len(history) > 0 {
		var sumNet int64
		for _, m := range history {
			sumNet += m.IncomeCents - m.ExpenseCents
		}
		avg = core.Money{Cents: core.DivRoundHalfUp(sumNet, int64(len(history)))}
	}

	// A zero or negative average is never feasible, regardless of how small
	// the required rate is.
	feasible := avg.Cents >= required.Cents && avg.Cents > 0

	var shortfall core.Money
	if !feasible {
		shortfall = required.Sub(avg)
	}

	var projectedMonths *int
	var projectedMonth *string
	if avg.Cents > 0 {
		pm := int(core.CeilDiv(target.Cents, avg.Cents))
		month := core.MonthKey(core.AddMonths(startMonth, pm-1)) // inclusive months
		projectedMonths = &pm
		projectedMonth = &month
	}

	monthFrom, monthTo := core.MonthBounds(now)
	cutRows, err := p.ledger.ExpenseByCategory(ctx, &monthFrom, &monthTo,
		[]core.Bucket{core.BucketControllable, core.BucketUnnecessary}, cutTargetCount)
	if err != nil {
		return core.GoalPlan{}, fmt.Errorf("cut targets: %w", err)
	}

	return core.GoalPlan{
		MonthsRemaining:     monthsRemaining,
		RequiredMonthlySave: required,
		AvgMonthlyNetSaving: avg,
		Feasible:            feasible,
		MonthlyShortfall:    shortfall,
		ProjectedMonths:     projectedMonths,
		ProjectedMonth:      projectedMonth,
		SuggestedCutTargets: categoryTotals(cutRows),
		HistoryMonthsUsed:   historyMonths,
	}, nil
}
