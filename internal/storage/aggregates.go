package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"spendsense/internal/core"
)

// Grouped aggregate rows consumed by the analytics engine. These carry raw
// cents and group labels only; response shaping happens upstream.

// BucketSum is the summed expense for one bucket group; Bucket is invalid
// (NULL) for expenses with no bucket assigned.
type BucketSum struct {
	Bucket       sql.NullString
	ExpenseCents int64
}

// CategorySum is the summed expense for one category group; Category is
// invalid (NULL) for expenses with no category.
type CategorySum struct {
	Category     sql.NullString
	ExpenseCents int64
}

// MonthSum is the income/expense for one YYYY-MM month label.
type MonthSum struct {
	Month        string
	IncomeCents  int64
	ExpenseCents int64
}

// DaySum is the income/expense for one YYYY-MM-DD day.
type DaySum struct {
	Day          string
	IncomeCents  int64
	ExpenseCents int64
}

// dateRange appends inclusive occurred_on bounds to a WHERE clause.
func dateRange(where []string, args []any, from, to *time.Time) ([]string, []any) {
	if from != nil {
		where = append(where, "occurred_on >= ?")
		args = append(args, core.FormatDate(*from))
	}
	if to != nil {
		where = append(where, "occurred_on <= ?")
		args = append(args, core.FormatDate(*to))
	}
	return where, args
}

// TotalsByType sums income and expense amounts inside the optional date
// range. Missing contributions coalesce to zero.
func (r *SQLiteRepository) TotalsByType(ctx context.Context, from, to *time.Time) (incomeCents, expenseCents int64, err error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN tx_type = 'income' THEN amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN tx_type = 'expense' THEN amount_cents ELSE 0 END), 0)
	FROM transactions`
	where, args := dateRange(nil, nil, from, to)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&incomeCents, &expenseCents); err != nil {
		return 0, 0, fmt.Errorf("totals by type: %w", err)
	}
	return incomeCents, expenseCents, nil
}

// ExpenseByBucket sums expenses per bucket inside the optional date range,
// including the NULL bucket group, ordered by descending sum. Ordering among
// equal sums follows SQLite iteration order and is not guaranteed.
func (r *SQLiteRepository) ExpenseByBucket(ctx context.Context, from, to *time.Time) ([]BucketSum, error) {
	where := []string{"tx_type = 'expense'"}
	var args []any
	where, args = dateRange(where, args, from, to)
	query := `SELECT bucket, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY bucket
		ORDER BY COALESCE(SUM(amount_cents), 0) DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expense by bucket: %w", err)
	}
	defer rows.Close()

	var out []BucketSum
	for rows.Next() {
		var s BucketSum
		if err := rows.Scan(&s.Bucket, &s.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan bucket sum: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExpenseByCategory sums expenses per category inside the optional date
// range, ordered by descending sum. A non-empty buckets slice restricts rows
// to those buckets; limit > 0 caps the result. Only categories present in
// the filtered rows appear.
func (r *SQLiteRepository) ExpenseByCategory(ctx context.Context, from, to *time.Time, buckets []core.Bucket, limit int) ([]CategorySum, error) {
	where := []string{"tx_type = 'expense'"}
	var args []any
	where, args = dateRange(where, args, from, to)
	if len(buckets) > 0 {
		placeholders := make([]string, len(buckets))
		for i, b := range buckets {
			placeholders[i] = "?"
			args = append(args, string(b))
		}
		where = append(where, "bucket IN ("+strings.Join(placeholders, ", ")+")")
	}
	query := `SELECT category, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE ` + strings.Join(where, " AND ") + `
		GROUP BY category
		ORDER BY COALESCE(SUM(amount_cents), 0) DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expense by category: %w", err)
	}
	defer rows.Close()

	var out []CategorySum
	for rows.Next() {
		var s CategorySum
		if err := rows.Scan(&s.Category, &s.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MonthlyTotals sums income and expense per calendar month label inside the
// optional date range. Rows come back in descending month order, capped at
// months; the caller reverses to chronological order.
func (r *SQLiteRepository) MonthlyTotals(ctx context.Context, from, to *time.Time, months int) ([]MonthSum, error) {
	where, args := dateRange(nil, nil, from, to)
	query := `SELECT substr(occurred_on, 1, 7) AS month,
		COALESCE(SUM(CASE WHEN tx_type = 'income' THEN amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN tx_type = 'expense' THEN amount_cents ELSE 0 END), 0)
	FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY month ORDER BY month DESC LIMIT ?"
	args = append(args, months)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var out []MonthSum
	for rows.Next() {
		var s MonthSum
		if err := rows.Scan(&s.Month, &s.IncomeCents, &s.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan month sum: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DailyTotals sums income and expense per calendar day inside [from, to],
// ascending by date. Days with no transactions do not appear.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, from, to time.Time) ([]DaySum, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT occurred_on,
		COALESCE(SUM(CASE WHEN tx_type = 'income' THEN amount_cents ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN tx_type = 'expense' THEN amount_cents ELSE 0 END), 0)
	FROM transactions
	WHERE occurred_on >= ? AND occurred_on <= ?
	GROUP BY occurred_on
	ORDER BY occurred_on ASC`,
		core.FormatDate(from), core.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var out []DaySum
	for rows.Next() {
		var s DaySum
		if err := rows.Scan(&s.Day, &s.IncomeCents, &s.ExpenseCents); err != nil {
			return nil, fmt.Errorf("scan day sum: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
