package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendsense/internal/amqp"
	"spendsense/internal/core"
	"spendsense/internal/export"
	applog "spendsense/internal/log"
	"spendsense/internal/services"
)

// TransactionGetter fetches a single ledger entry by id.
type TransactionGetter interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
}

// AlertEvaluator reports over-budget categories for a month.
type AlertEvaluator interface {
	OverBudget(ctx context.Context, forDate time.Time) ([]core.AlertRow, error)
}

// SyncWorker reacts to transaction events: it appends created entries to the
// export target and re-evaluates budget alerts for the affected month.
type SyncWorker struct {
	store    TransactionGetter
	appender export.TransactionAppender // optional
	alerts   AlertEvaluator
}

func NewSyncWorker(store TransactionGetter, appender export.TransactionAppender, alerts AlertEvaluator) *SyncWorker {
	return &SyncWorker{
		store:    store,
		appender: appender,
		alerts:   alerts,
	}
}

// HandleTransactionEvent processes one event from AMQP.
func (w *SyncWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	switch msg.Action {
	case services.EventTxCreated:
		return w.handleCreated(ctx, msg.ID)
	case services.EventTxDeleted:
		// The row is gone; alerts for the current month may have cleared.
		w.logAlerts(ctx, time.Now().UTC())
		return nil
	default:
		// Unknown actions are dropped, not requeued.
		slog.WarnContext(ctx, "Ignoring unknown transaction event action",
			"id", msg.ID, "action", msg.Action)
		return nil
	}
}

func (w *SyncWorker) handleCreated(ctx context.Context, id int64) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted between publish and consume; nothing left to export.
		slog.WarnContext(ctx, "Transaction vanished before sync", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if w.appender != nil {
		ref, err := w.appender.Append(ctx, tx)
		if err != nil {
			return fmt.Errorf("append to export target: %w", err)
		}
		slog.InfoContext(ctx, "Exported transaction",
			"id", id,
			applog.FieldSheetsRef, ref,
			applog.FieldAmountCents, tx.Amount.Cents)
	}

	if tx.Type == core.TxExpense {
		w.logAlerts(ctx, tx.OccurredOn)
	}
	return nil
}

// logAlerts surfaces over-budget categories in the worker log. An evaluation
// failure never fails the message.
func (w *SyncWorker) logAlerts(ctx context.Context, forDate time.Time) {
	if w.alerts == nil {
		return
	}
	rows, err := w.alerts.OverBudget(ctx, forDate)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to evaluate budget alerts", applog.FieldError, err)
		return
	}
	for _, a := range rows {
		slog.WarnContext(ctx, "Category over budget",
			applog.FieldCategory, a.Category,
			"limit", a.MonthlyLimit.String(),
			"spent", a.Spent.String(),
			"over_by", a.OverBy.String(),
			applog.FieldMonth, core.MonthKey(forDate))
	}
}
