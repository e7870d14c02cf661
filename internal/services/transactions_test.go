package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendsense/internal/core"
	"spendsense/internal/storage"
)

func expenseOn(y int, m time.Month, d int, cents int64) core.Transaction {
	return core.Transaction{
		Type:       core.TxExpense,
		Amount:     core.Money{Cents: cents},
		Currency:   core.Currency,
		OccurredOn: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateInfersBucketForExpenses(t *testing.T) {
	store := &fakeTxStore{}
	svc := NewTransactions(store, nil)

	tx := expenseOn(2026, time.September, 1, 4500)
	tx.Category = "groceries"
	created, err := svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Bucket != core.BucketNecessary {
		t.Fatalf("expected groceries classified as necessary, got %q", created.Bucket)
	}

	// An explicit bucket always wins over the classifier.
	tx = expenseOn(2026, time.September, 1, 4500)
	tx.Category = "groceries"
	tx.Bucket = core.BucketUnnecessary
	created, err = svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Bucket != core.BucketUnnecessary {
		t.Fatalf("explicit bucket overridden: got %q", created.Bucket)
	}

	// Income never gets a bucket.
	income := core.Transaction{
		Type:       core.TxIncome,
		Amount:     core.Money{Cents: 100000},
		Currency:   core.Currency,
		Category:   "groceries",
		OccurredOn: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
	created, err = svc.Create(context.Background(), income)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Bucket != "" {
		t.Fatalf("income must not carry a bucket, got %q", created.Bucket)
	}
}

func TestCreateKeywordFallbackAndUnknown(t *testing.T) {
	store := &fakeTxStore{}
	svc := NewTransactions(store, nil)

	tx := expenseOn(2026, time.September, 1, 1200)
	tx.Category = "misc"
	tx.Note = "Netflix monthly"
	created, err := svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Bucket != core.BucketUnnecessary {
		t.Fatalf("expected keyword match to classify unnecessary, got %q", created.Bucket)
	}

	tx = expenseOn(2026, time.September, 1, 1200)
	tx.Category = "misc"
	tx.Note = "no idea"
	created, err = svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Bucket != "" {
		t.Fatalf("unconfident classification must leave bucket empty, got %q", created.Bucket)
	}
}

func TestCreateDefaultsAndValidates(t *testing.T) {
	store := &fakeTxStore{}
	svc := NewTransactions(store, nil)

	tx := expenseOn(2026, time.September, 1, 4500)
	tx.Currency = ""
	created, err := svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Currency != core.Currency {
		t.Fatalf("expected currency defaulted to %s, got %s", core.Currency, created.Currency)
	}

	bad := expenseOn(2026, time.September, 1, 0)
	if _, err := svc.Create(context.Background(), bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(store.txs) != 1 {
		t.Fatalf("invalid transaction must not be stored, have %d", len(store.txs))
	}
}

func TestUpdateDoesNotReinferBucket(t *testing.T) {
	store := &fakeTxStore{}
	svc := NewTransactions(store, nil)

	tx := expenseOn(2026, time.September, 1, 4500)
	tx.Category = "groceries"
	created, err := svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Bucket = ""
	updated, err := svc.Update(context.Background(), created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Bucket != "" {
		t.Fatalf("update cleared the bucket but got %q back", updated.Bucket)
	}
}

func TestWriteEventsArePublished(t *testing.T) {
	store := &fakeTxStore{}
	pub := &fakePublisher{}
	svc := NewTransactions(store, pub)

	created, err := svc.Create(context.Background(), expenseOn(2026, time.September, 1, 4500))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []string{EventTxCreated, EventTxDeleted}
	if len(pub.published) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), pub.published)
	}
	for i, action := range want {
		if pub.published[i] != action {
			t.Fatalf("event %d: expected %q, got %q", i, action, pub.published[i])
		}
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	store := &fakeTxStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactions(store, pub)

	if _, err := svc.Create(context.Background(), expenseOn(2026, time.September, 1, 4500)); err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}
	if len(store.txs) != 1 {
		t.Fatal("transaction not stored")
	}
}

func TestDeleteMissingTransaction(t *testing.T) {
	svc := NewTransactions(&fakeTxStore{}, &fakePublisher{})
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListValidatesFilter(t *testing.T) {
	svc := NewTransactions(&fakeTxStore{}, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter storage.TxFilter
		want   error
	}{
		{"bad type", storage.TxFilter{Type: "transfer"}, core.ErrInvalidTxType},
		{"bad bucket", storage.TxFilter{Bucket: "luxury"}, core.ErrInvalidBucket},
		{"inverted range", storage.TxFilter{DateFrom: datePtr(2026, time.September, 30), DateTo: datePtr(2026, time.September, 1)}, core.ErrInvalidDateRange},
		{"limit too large", storage.TxFilter{Limit: 1001}, ErrOutOfRange},
		{"negative offset", storage.TxFilter{Offset: -1}, ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.List(ctx, tc.filter); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := svc.List(ctx, storage.TxFilter{Limit: 1000}); err != nil {
		t.Fatalf("limit at the cap must be accepted: %v", err)
	}
}
