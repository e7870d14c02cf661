package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendsense/internal/amqp"
	"spendsense/internal/core"
	"spendsense/internal/export/memory"
)

type fakeGetter struct {
	tx  core.Transaction
	err error
}

func (f *fakeGetter) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	tx := f.tx
	tx.ID = id
	return tx, nil
}

type fakeAlerts struct {
	calls int
	dates []time.Time
}

func (f *fakeAlerts) OverBudget(ctx context.Context, forDate time.Time) ([]core.AlertRow, error) {
	f.calls++
	f.dates = append(f.dates, forDate)
	return nil, nil
}

func sampleExpense() core.Transaction {
	return core.Transaction{
		Type:       core.TxExpense,
		Amount:     core.Money{Cents: 4500},
		Currency:   core.Currency,
		Category:   "dining_out",
		Bucket:     core.BucketControllable,
		OccurredOn: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHandleCreatedExportsAndEvaluatesAlerts(t *testing.T) {
	store := &fakeGetter{tx: sampleExpense()}
	target := memory.New()
	alerts := &fakeAlerts{}
	w := NewSyncWorker(store, target, alerts)

	msg := amqp.NewTransactionEventMessage(7, "created")
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleTransactionEvent: %v", err)
	}

	items := target.Items()
	if len(items) != 1 || items[0].ID != 7 {
		t.Fatalf("expected one exported transaction with id 7, got %+v", items)
	}
	if alerts.calls != 1 {
		t.Fatalf("expected one alert evaluation, got %d", alerts.calls)
	}
	if core.MonthKey(alerts.dates[0]) != "2026-09" {
		t.Fatalf("alerts evaluated over wrong month: %v", alerts.dates[0])
	}
}

func TestHandleCreatedIncomeSkipsAlerts(t *testing.T) {
	tx := sampleExpense()
	tx.Type = core.TxIncome
	tx.Category = "salary"
	tx.Bucket = ""
	alerts := &fakeAlerts{}
	w := NewSyncWorker(&fakeGetter{tx: tx}, memory.New(), alerts)

	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(1, "created")); err != nil {
		t.Fatalf("HandleTransactionEvent: %v", err)
	}
	if alerts.calls != 0 {
		t.Fatal("income must not trigger a budget evaluation")
	}
}

func TestHandleCreatedVanishedTransaction(t *testing.T) {
	store := &fakeGetter{err: core.ErrNotFound}
	w := NewSyncWorker(store, memory.New(), &fakeAlerts{})

	// A row deleted before the worker caught up must be acked, not requeued.
	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(1, "created")); err != nil {
		t.Fatalf("expected vanished transaction to be dropped, got %v", err)
	}
}

func TestHandleCreatedStorageFailureRequeues(t *testing.T) {
	store := &fakeGetter{err: errors.New("db locked")}
	w := NewSyncWorker(store, memory.New(), &fakeAlerts{})

	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(1, "created")); err == nil {
		t.Fatal("storage failure must surface so the message is requeued")
	}
}

func TestHandleDeletedEvaluatesAlertsOnly(t *testing.T) {
	target := memory.New()
	alerts := &fakeAlerts{}
	w := NewSyncWorker(&fakeGetter{err: core.ErrNotFound}, target, alerts)

	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(3, "deleted")); err != nil {
		t.Fatalf("HandleTransactionEvent: %v", err)
	}
	if len(target.Items()) != 0 {
		t.Fatal("deleted events must not export anything")
	}
	if alerts.calls != 1 {
		t.Fatalf("expected one alert evaluation, got %d", alerts.calls)
	}
}

func TestHandleUnknownActionDropped(t *testing.T) {
	w := NewSyncWorker(&fakeGetter{tx: sampleExpense()}, memory.New(), &fakeAlerts{})
	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(1, "renamed")); err != nil {
		t.Fatalf("unknown actions must be dropped silently, got %v", err)
	}
}

func TestSyncWorkerWithoutAppender(t *testing.T) {
	alerts := &fakeAlerts{}
	w := NewSyncWorker(&fakeGetter{tx: sampleExpense()}, nil, alerts)
	if err := w.HandleTransactionEvent(context.Background(), amqp.NewTransactionEventMessage(1, "created")); err != nil {
		t.Fatalf("worker without export target must still evaluate alerts: %v", err)
	}
	if alerts.calls != 1 {
		t.Fatalf("expected one alert evaluation, got %d", alerts.calls)
	}
}
