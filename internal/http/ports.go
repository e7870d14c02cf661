package http

import (
	"context"
	"io"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/services"
	"spendsense/internal/storage"
)

// Ports the handlers depend on. The services package provides the real
// implementations; tests use fakes.
type (
	TransactionService interface {
		Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		Get(ctx context.Context, id int64) (core.Transaction, error)
		Update(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, f storage.TxFilter) ([]core.Transaction, error)
	}

	BudgetService interface {
		Create(ctx context.Context, b core.Budget) (core.Budget, error)
		Get(ctx context.Context, id int64) (core.Budget, error)
		List(ctx context.Context) ([]core.Budget, error)
		Update(ctx context.Context, b core.Budget) (core.Budget, error)
		Delete(ctx context.Context, id int64) error
	}

	GoalService interface {
		Create(ctx context.Context, g core.Goal) (core.Goal, error)
		Get(ctx context.Context, id int64) (core.Goal, error)
		List(ctx context.Context) ([]core.Goal, error)
		Delete(ctx context.Context, id int64) error
	}

	AnalyticsService interface {
		Summary(ctx context.Context, from, to *time.Time, topN, months int) (core.AnalyticsSummary, error)
		Daily(ctx context.Context, from, to *time.Time) ([]core.DailyPoint, error)
	}

	AlertService interface {
		OverBudget(ctx context.Context, forDate time.Time) ([]core.AlertRow, error)
	}

	PlannerService interface {
		PlanGoal(ctx context.Context, target core.Money, targetDate time.Time, historyMonths int) (core.GoalPlan, error)
	}

	ImportService interface {
		Import(ctx context.Context, r io.Reader) (services.ImportResult, error)
	}

	// Pinger checks database reachability for /db/ping.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
