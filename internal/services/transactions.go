package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spendsense/internal/classifier"
	"spendsense/internal/core"
	applog "spendsense/internal/log"
	"spendsense/internal/storage"
)

// Event actions published on transaction writes.
const (
	EventTxCreated = "created"
	EventTxDeleted = "deleted"
)

const listLimitMax = 1000

// Transactions orchestrates ledger writes: validation, bucket
// auto-assignment on expense creation, and best-effort event publishing.
type Transactions struct {
	store  TransactionStore
	events EventPublisher // optional
}

func NewTransactions(store TransactionStore, events EventPublisher) *Transactions {
	return &Transactions{store: store, events: events}
}

// Create validates and inserts a ledger entry. An expense without a bucket
// gets one inferred from its category and note when the classifier is
// confident. The post-write event publish never fails the request.
func (s *Transactions) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.Currency == "" {
		tx.Currency = core.Currency
	}
	tx.Currency = strings.ToUpper(tx.Currency)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.Type == core.TxExpense && tx.Bucket == "" {
		tx.Bucket = classifier.Infer(tx.Category, tx.Note)
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	s.publish(ctx, created.ID, EventTxCreated)
	return created, nil
}

func (s *Transactions) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// Update overwrites an existing entry. Bucket auto-assignment is NOT
// reapplied: an update that clears the bucket leaves it cleared.
func (s *Transactions) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.Currency == "" {
		tx.Currency = core.Currency
	}
	tx.Currency = strings.ToUpper(tx.Currency)
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return s.store.UpdateTransaction(ctx, tx)
}

func (s *Transactions) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, EventTxDeleted)
	return nil
}

// List returns filtered entries, newest first. The limit is capped at 1000.
func (s *Transactions) List(ctx context.Context, f storage.TxFilter) ([]core.Transaction, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, core.ErrInvalidTxType
	}
	if f.Bucket != "" && !f.Bucket.Valid() {
		return nil, core.ErrInvalidBucket
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, core.ErrInvalidDateRange
	}
	if f.Limit < 0 || f.Limit > listLimitMax {
		return nil, fmt.Errorf("%w: limit %d not in [1, %d]", ErrOutOfRange, f.Limit, listLimitMax)
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrOutOfRange)
	}
	return s.store.ListTransactions(ctx, f)
}

func (s *Transactions) publish(ctx context.Context, id int64, action string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, applog.FieldError, err)
	}
}
