package core

import (
	"errors"
	"strings"
	"time"
)

// TxType discriminates ledger entries.
type TxType string

const (
	TxIncome  TxType = "income"
	TxExpense TxType = "expense"
)

// Valid reports whether the value is one of the two ledger entry types.
func (t TxType) Valid() bool {
	return t == TxIncome || t == TxExpense
}

// Bucket is the spending-intent classification of an expense.
type Bucket string

const (
	BucketNecessary    Bucket = "necessary"
	BucketControllable Bucket = "controllable"
	BucketUnnecessary  Bucket = "unnecessary"
)

// Valid reports whether the value is a known bucket label.
func (b Bucket) Valid() bool {
	switch b {
	case BucketNecessary, BucketControllable, BucketUnnecessary:
		return true
	}
	return false
}

// Currency is the only money unit the system accepts.
const Currency = "EUR"

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidTxType    = errors.New("tx_type must be income or expense")
	ErrInvalidBucket    = errors.New("invalid bucket")
	ErrInvalidCurrency  = errors.New("only EUR is supported")
	ErrInvalidDateRange = errors.New("date_from must not be after date_to")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNotFound         = errors.New("not found")
	ErrBudgetExists     = errors.New("budget already exists for this category")
	ErrTargetDatePast   = errors.New("target_date must be in the future")
	ErrEmptyName        = errors.New("empty name")
)

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID         int64
	Type       TxType
	Amount     Money
	Currency   string
	Category   string // optional, "" when unset
	Bucket     Bucket // optional, "" when unset; meaningful for expenses
	OccurredOn time.Time
	Note       string // optional free text
}

// Validate checks the ledger entry invariants: valid type, positive amount,
// EUR currency, known bucket label when one is set.
func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidTxType
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !strings.EqualFold(tx.Currency, Currency) {
		return ErrInvalidCurrency
	}
	if tx.Bucket != "" && !tx.Bucket.Valid() {
		return ErrInvalidBucket
	}
	if tx.OccurredOn.IsZero() {
		return ErrInvalidDate
	}
	if len(tx.Category) > 50 {
		return errors.New("category too long (max 50 characters)")
	}
	if len(tx.Note) > 255 {
		return errors.New("note too long (max 255 characters)")
	}
	return nil
}

// Budget caps monthly spend for one category. One budget per category.
type Budget struct {
	ID           int64
	Category     string
	MonthlyLimit Money
	Currency     string
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return errors.New("empty category")
	}
	if len(b.Category) > 50 {
		return errors.New("category too long (max 50 characters)")
	}
	if err := b.MonthlyLimit.Validate(); err != nil {
		return err
	}
	if !strings.EqualFold(b.Currency, Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// Goal is a savings target with a deadline.
type Goal struct {
	ID           int64
	Name         string
	TargetAmount Money
	Currency     string
	TargetDate   time.Time
	CreatedOn    time.Time
}

// Validate checks goal invariants at creation time. The target date must be
// strictly after now's calendar date.
func (g Goal) Validate(now time.Time) error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if !strings.EqualFold(g.Currency, Currency) {
		return ErrInvalidCurrency
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !g.TargetDate.After(today) {
		return ErrTargetDatePast
	}
	return nil
}
