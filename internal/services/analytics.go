package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

// Bounds for analytics query parameters.
const (
	TopCategoriesDefault = 10
	TopCategoriesMax     = 50
	MonthsDefault        = 12
	MonthsMax            = 60
	DailyWindowDays      = 30
)

// Analytics computes grouped monetary aggregates over the ledger. All
// operations are read-only and side-effect-free; results reflect whatever
// the store returns at query time.
type Analytics struct {
	ledger Ledger

	// Now is the clock used for default date windows. Tests override it.
	Now func() time.Time
}

func NewAnalytics(ledger Ledger) *Analytics {
	return &Analytics{ledger: ledger, Now: time.Now}
}

// validateRange rejects inverted date ranges before any query runs.
func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return core.ErrInvalidDateRange
	}
	return nil
}

// Totals returns income, expense and net inside the optional inclusive date
// range. Net is income minus expense, exactly.
func (s *Analytics) Totals(ctx context.Context, from, to *time.Time) (core.MoneyTotals, error) {
	if err := validateRange(from, to); err != nil {
		return core.MoneyTotals{}, err
	}
	incomeCents, expenseCents, err := s.ledger.TotalsByType(ctx, from, to)
	if err != nil {
		return core.MoneyTotals{}, err
	}
	income := core.Money{Cents: incomeCents}
	expense := core.Money{Cents: expenseCents}
	return core.MoneyTotals{Income: income, Expense: expense, Net: income.Sub(expense)}, nil
}

// ByBucket returns per-bucket expense sums in descending order, including
// the unassigned group. Ordering among equal sums is not guaranteed.
func (s *Analytics) ByBucket(ctx context.Context, from, to *time.Time) ([]core.BucketTotal, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.ledger.ExpenseByBucket(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]core.BucketTotal, len(rows))
	for i, row := range rows {
		var bucket *core.Bucket
		if row.Bucket.Valid {
			b := core.Bucket(row.Bucket.String)
			bucket = &b
		}
		out[i] = core.BucketTotal{Bucket: bucket, Expense: core.Money{Cents: row.ExpenseCents}}
	}
	return out, nil
}

// ByCategory returns the top topN categories by expense sum, descending.
// Categories with no recorded expense in the range never appear.
func (s *Analytics) ByCategory(ctx context.Context, topN int, from, to *time.Time) ([]core.CategoryTotal, error) {
	if topN < 1 || topN > TopCategoriesMax {
		return nil, fmt.Errorf("%w: top_n %d not in [1, %d]", ErrOutOfRange, topN, TopCategoriesMax)
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.ledger.ExpenseByCategory(ctx, from, to, nil, topN)
	if err != nil {
		return nil, err
	}
	return categoryTotals(rows), nil
}

// Monthly returns income/expense/net per calendar month for the most recent
// months labels inside the range, in ascending chronological order.
func (s *Analytics) Monthly(ctx context.Context, months int, from, to *time.Time) ([]core.MonthlyTotal, error) {
	if months < 1 || months > MonthsMax {
		return nil, fmt.Errorf("%w: months %d not in [1, %d]", ErrOutOfRange, months, MonthsMax)
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	rows, err := s.ledger.MonthlyTotals(ctx, from, to, months)
	if err != nil {
		return nil, err
	}
	// Store returns most recent first; reverse to chronological order.
	out := make([]core.MonthlyTotal, len(rows))
	for i, row := range rows {
		income := core.Money{Cents: row.IncomeCents}
		expense := core.Money{Cents: row.ExpenseCents}
		out[len(rows)-1-i] = core.MonthlyTotal{
			Month:   row.Month,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		}
	}
	return out, nil
}

// Daily returns income/expense/net per calendar day, ascending. Days with no
// transactions are not synthesized. With both bounds unset the window
// defaults to the last 30 days ending today; a single bound is rejected.
func (s *Analytics) Daily(ctx context.Context, from, to *time.Time) ([]core.DailyPoint, error) {
	var start, end time.Time
	switch {
	case from == nil && to == nil:
		end = s.today()
		start = end.AddDate(0, 0, -(DailyWindowDays - 1))
	case from != nil && to != nil:
		start, end = *from, *to
	default:
		return nil, fmt.Errorf("%w: daily series needs both date bounds or neither", ErrOutOfRange)
	}
	if start.After(end) {
		return nil, core.ErrInvalidDateRange
	}
	rows, err := s.ledger.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]core.DailyPoint, len(rows))
	for i, row := range rows {
		income := core.Money{Cents: row.IncomeCents}
		expense := core.Money{Cents: row.ExpenseCents}
		out[i] = core.DailyPoint{
			Date:    row.Day,
			Income:  income,
			Expense: expense,
			Net:     income.Sub(expense),
		}
	}
	return out, nil
}

// Summary runs the four independent aggregate queries concurrently. The
// result is best effort as of query time; a write landing between the
// sub-queries is not serialized against. topN and months of 0 fall back to
// their defaults.
func (s *Analytics) Summary(ctx context.Context, from, to *time.Time, topN, months int) (core.AnalyticsSummary, error) {
	if topN == 0 {
		topN = TopCategoriesDefault
	}
	if months == 0 {
		months = MonthsDefault
	}
	if err := validateRange(from, to); err != nil {
		return core.AnalyticsSummary{}, err
	}
	var summary core.AnalyticsSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.Totals(gctx, from, to)
		summary.Totals = totals
		return err
	})
	g.Go(func() error {
		byBucket, err := s.ByBucket(gctx, from, to)
		summary.ByBucket = byBucket
		return err
	})
	g.Go(func() error {
		byCategory, err := s.ByCategory(gctx, topN, from, to)
		summary.ByCategory = byCategory
		return err
	})
	g.Go(func() error {
		monthly, err := s.Monthly(gctx, months, from, to)
		summary.Monthly = monthly
		return err
	})
	if err := g.Wait(); err != nil {
		return core.AnalyticsSummary{}, err
	}
	return summary, nil
}

func (s *Analytics) today() time.Time {
	now := s.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func categoryTotals(rows []storage.CategorySum) []core.CategoryTotal {
	out := make([]core.CategoryTotal, len(rows))
	for i, row := range rows {
		var category *string
		if row.Category.Valid {
			c := row.Category.String
			category = &c
		}
		out[i] = core.CategoryTotal{Category: category, Expense: core.Money{Cents: row.ExpenseCents}}
	}
	return out
}
