// Package services implements the analytics and goal-planning engine plus
// the thin orchestration around ledger, budget and goal writes.
package services

import (
	"context"
	"errors"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

// ErrOutOfRange marks a request parameter outside its valid bounds.
var ErrOutOfRange = errors.New("parameter out of range")

// Ports for the persistence layer. The engine only sees projected aggregate
// rows and plain entities, never storage row objects beyond those.
type (
	// Ledger provides grouped monetary aggregates over the transaction set.
	Ledger interface {
		TotalsByType(ctx context.Context, from, to *time.Time) (incomeCents, expenseCents int64, err error)
		ExpenseByBucket(ctx context.Context, from, to *time.Time) ([]storage.BucketSum, error)
		ExpenseByCategory(ctx context.Context, from, to *time.Time, buckets []core.Bucket, limit int) ([]storage.CategorySum, error)
		MonthlyTotals(ctx context.Context, from, to *time.Time, months int) ([]storage.MonthSum, error)
		DailyTotals(ctx context.Context, from, to time.Time) ([]storage.DaySum, error)
	}

	TransactionStore interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
		ListTransactions(ctx context.Context, f storage.TxFilter) ([]core.Transaction, error)
	}

	BudgetStore interface {
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		GetBudget(ctx context.Context, id int64) (core.Budget, error)
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		DeleteBudget(ctx context.Context, id int64) error
	}

	GoalStore interface {
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		GetGoal(ctx context.Context, id int64) (core.Goal, error)
		ListGoals(ctx context.Context) ([]core.Goal, error)
		DeleteGoal(ctx context.Context, id int64) error
	}

	// EventPublisher pushes transaction change events to the async export
	// pipeline. Publishing is best effort; a failure never fails the write.
	EventPublisher interface {
		PublishTransactionEvent(ctx context.Context, id int64, action string) error
	}
)
