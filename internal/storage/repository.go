// Package storage implements the persistent ledger, budget and goal stores
// on SQLite.
//
// Dates are stored as TEXT in YYYY-MM-DD form; ISO dates compare correctly
// as strings, which the aggregate queries rely on. Amounts are stored as
// integer cents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendsense/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies database connectivity.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// TxFilter narrows ListTransactions. Zero values mean "no constraint".
type TxFilter struct {
	Type     core.TxType
	Category string
	Bucket   core.Bucket
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateTransaction inserts a ledger entry and returns it with its ID set.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (tx_type, amount_cents, currency, category, bucket, occurred_on, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(tx.Type), tx.Amount.Cents, strings.ToUpper(tx.Currency),
		nullable(tx.Category), nullable(string(tx.Bucket)),
		core.FormatDate(tx.OccurredOn), nullable(tx.Note))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	tx.ID = id
	return tx, nil
}

const txColumns = "id, tx_type, amount_cents, currency, category, bucket, occurred_on, note"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx               core.Transaction
		txType, currency string
		category, bucket sql.NullString
		note             sql.NullString
		occurredOn       string
	)
	if err := row.Scan(&tx.ID, &txType, &tx.Amount.Cents, &currency, &category, &bucket, &occurredOn, &note); err != nil {
		return core.Transaction{}, err
	}
	day, err := core.ParseDate(occurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse occurred_on %q: %w", occurredOn, err)
	}
	tx.Type = core.TxType(txType)
	tx.Currency = currency
	tx.Category = category.String
	tx.Bucket = core.Bucket(bucket.String)
	tx.OccurredOn = day
	tx.Note = note.String
	return tx, nil
}

// GetTransaction returns a single entry or core.ErrNotFound.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// UpdateTransaction overwrites all mutable fields of an existing entry.
// Bucket auto-assignment is never reapplied here; a cleared bucket stays
// cleared.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET tx_type = ?, amount_cents = ?, currency = ?, category = ?, bucket = ?, occurred_on = ?, note = ?
		 WHERE id = ?`,
		string(tx.Type), tx.Amount.Cents, strings.ToUpper(tx.Currency),
		nullable(tx.Category), nullable(string(tx.Bucket)),
		core.FormatDate(tx.OccurredOn), nullable(tx.Note), tx.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

// DeleteTransaction removes an entry or returns core.ErrNotFound.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListTransactions returns entries newest first, filtered per f.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f TxFilter) ([]core.Transaction, error) {
	query := "SELECT " + txColumns + " FROM transactions"
	var (
		where []string
		args  []any
	)
	if f.Type != "" {
		where = append(where, "tx_type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Bucket != "" {
		where = append(where, "bucket = ?")
		args = append(args, string(f.Bucket))
	}
	if f.DateFrom != nil {
		where = append(where, "occurred_on >= ?")
		args = append(args, core.FormatDate(*f.DateFrom))
	}
	if f.DateTo != nil {
		where = append(where, "occurred_on <= ?")
		args = append(args, core.FormatDate(*f.DateTo))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_on DESC, id DESC"
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// CreateBudget inserts a budget. A second budget for the same category is
// rejected with core.ErrBudgetExists, never overwritten.
func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO budgets (category, monthly_limit_cents, currency) VALUES (?, ?, ?)",
		b.Category, b.MonthlyLimit.Cents, strings.ToUpper(b.Currency))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Budget{}, core.ErrBudgetExists
		}
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx,
		"SELECT id, category, monthly_limit_cents, currency FROM budgets WHERE id = ?", id).
		Scan(&b.ID, &b.Category, &b.MonthlyLimit.Cents, &b.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns every budget ordered by category.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, category, monthly_limit_cents, currency FROM budgets ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.MonthlyLimit.Cents, &b.Currency); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE budgets SET category = ?, monthly_limit_cents = ?, currency = ? WHERE id = ?",
		b.Category, b.MonthlyLimit.Cents, strings.ToUpper(b.Currency), b.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Budget{}, core.ErrBudgetExists
		}
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Budget{}, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO goals (name, target_amount_cents, currency, target_date, created_on) VALUES (?, ?, ?, ?, ?)",
		g.Name, g.TargetAmount.Cents, strings.ToUpper(g.Currency),
		core.FormatDate(g.TargetDate), core.FormatDate(g.CreatedOn))
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("last insert id: %w", err)
	}
	g.ID = id
	return g, nil
}

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var (
		g                     core.Goal
		targetDate, createdOn string
	)
	if err := row.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.Currency, &targetDate, &createdOn); err != nil {
		return core.Goal{}, err
	}
	var err error
	if g.TargetDate, err = core.ParseDate(targetDate); err != nil {
		return core.Goal{}, fmt.Errorf("parse target_date %q: %w", targetDate, err)
	}
	if g.CreatedOn, err = core.ParseDate(createdOn); err != nil {
		return core.Goal{}, fmt.Errorf("parse created_on %q: %w", createdOn, err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, target_amount_cents, currency, target_date, created_on FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals ordered by nearest target date first.
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, target_amount_cents, currency, target_date, created_on FROM goals ORDER BY target_date ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
