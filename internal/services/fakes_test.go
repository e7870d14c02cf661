package services

import (
	"context"
	"database/sql"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

// fakeLedger returns canned aggregate rows and records the arguments of the
// last call per query, so tests can assert on filters and windows.
type fakeLedger struct {
	incomeCents  int64
	expenseCents int64
	buckets      []storage.BucketSum
	categories   []storage.CategorySum
	months       []storage.MonthSum
	days         []storage.DaySum
	err          error

	totalsFrom, totalsTo *time.Time
	catFrom, catTo       *time.Time
	catBuckets           []core.Bucket
	catLimit             int
	monthsRequested      int
	daysFrom, daysTo     time.Time
}

func (f *fakeLedger) TotalsByType(ctx context.Context, from, to *time.Time) (int64, int64, error) {
	f.totalsFrom, f.totalsTo = from, to
	return f.incomeCents, f.expenseCents, f.err
}

func (f *fakeLedger) ExpenseByBucket(ctx context.Context, from, to *time.Time) ([]storage.BucketSum, error) {
	return f.buckets, f.err
}

func (f *fakeLedger) ExpenseByCategory(ctx context.Context, from, to *time.Time, buckets []core.Bucket, limit int) ([]storage.CategorySum, error) {
	f.catFrom, f.catTo = from, to
	f.catBuckets = buckets
	f.catLimit = limit
	rows := f.categories
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, f.err
}

func (f *fakeLedger) MonthlyTotals(ctx context.Context, from, to *time.Time, months int) ([]storage.MonthSum, error) {
	f.monthsRequested = months
	rows := f.months
	if len(rows) > months {
		rows = rows[:months]
	}
	return rows, f.err
}

func (f *fakeLedger) DailyTotals(ctx context.Context, from, to time.Time) ([]storage.DaySum, error) {
	f.daysFrom, f.daysTo = from, to
	return f.days, f.err
}

type fakeBudgetStore struct {
	budgets []core.Budget
	err     error
}

func (f *fakeBudgetStore) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	return b, f.err
}
func (f *fakeBudgetStore) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	for _, b := range f.budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Budget{}, core.ErrNotFound
}
func (f *fakeBudgetStore) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return f.budgets, f.err
}
func (f *fakeBudgetStore) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	return b, f.err
}
func (f *fakeBudgetStore) DeleteBudget(ctx context.Context, id int64) error { return f.err }

// fakeTxStore keeps transactions in a slice, newest-insert-last.
type fakeTxStore struct {
	nextID int64
	txs    []core.Transaction
	err    error
}

func (f *fakeTxStore) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	f.nextID++
	tx.ID = f.nextID
	f.txs = append(f.txs, tx)
	return tx, nil
}
func (f *fakeTxStore) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	for _, tx := range f.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}
func (f *fakeTxStore) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	for i, existing := range f.txs {
		if existing.ID == tx.ID {
			f.txs[i] = tx
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}
func (f *fakeTxStore) DeleteTransaction(ctx context.Context, id int64) error {
	for i, tx := range f.txs {
		if tx.ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}
func (f *fakeTxStore) ListTransactions(ctx context.Context, filter storage.TxFilter) ([]core.Transaction, error) {
	return f.txs, f.err
}

type fakePublisher struct {
	published []string // "action:id"
	err       error
}

func (f *fakePublisher) PublishTransactionEvent(ctx context.Context, id int64, action string) error {
	f.published = append(f.published, action)
	return f.err
}

func validString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func fixedNow(y int, m time.Month, d int) func() time.Time {
	return func() time.Time {
		return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
	}
}
