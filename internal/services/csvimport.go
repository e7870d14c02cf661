package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"spendsense/internal/core"
)

// RejectRow reports one CSV row the importer refused, with a 1-based row
// number counted over data rows (the header excluded).
type RejectRow struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

// ImportResult summarizes a CSV import run.
type ImportResult struct {
	ImportID      string      `json:"import_id"`
	InsertedCount int         `json:"inserted_count"`
	RejectedRows  []RejectRow `json:"rejected_rows"`
}

// ErrMissingColumns marks a CSV whose header lacks a required column.
var ErrMissingColumns = errors.New("csv missing required columns")

var requiredColumns = []string{"tx_type", "amount", "occurred_on"}

// CSVImporter bulk-loads transactions from CSV. Valid rows are inserted,
// invalid ones are reported with a reason; a bad row never aborts the run.
type CSVImporter struct {
	transactions *Transactions
}

func NewCSVImporter(transactions *Transactions) *CSVImporter {
	return &CSVImporter{transactions: transactions}
}

// Import parses and loads the CSV stream. Column names are matched after
// trimming and lowercasing; unknown columns are ignored. Expenses without a
// bucket get one inferred during Create.
func (im *CSVImporter) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	result := ImportResult{ImportID: uuid.NewString(), RejectedRows: []RejectRow{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows rejected per row, not fatally
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		result.RejectedRows = append(result.RejectedRows, RejectRow{RowNumber: 1, Reason: "CSV is empty"})
		return result, nil
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ImportResult{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	rowNumber := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNumber++
		if err != nil {
			result.RejectedRows = append(result.RejectedRows, RejectRow{RowNumber: rowNumber, Reason: "malformed csv row"})
			continue
		}

		tx, reason := rowToTransaction(cols, record)
		if reason != "" {
			result.RejectedRows = append(result.RejectedRows, RejectRow{RowNumber: rowNumber, Reason: reason})
			continue
		}

		if _, err := im.transactions.Create(ctx, tx); err != nil {
			// Validation failures reject the row; store failures abort.
			if isValidationError(err) {
				result.RejectedRows = append(result.RejectedRows, RejectRow{RowNumber: rowNumber, Reason: err.Error()})
				continue
			}
			return ImportResult{}, fmt.Errorf("insert row %d: %w", rowNumber, err)
		}
		result.InsertedCount++
	}

	if rowNumber == 0 {
		result.RejectedRows = append(result.RejectedRows, RejectRow{RowNumber: 1, Reason: "CSV is empty"})
	}
	return result, nil
}

func field(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func rowToTransaction(cols map[string]int, record []string) (core.Transaction, string) {
	txType := core.TxType(strings.ToLower(field(cols, record, "tx_type")))
	if !txType.Valid() {
		return core.Transaction{}, "tx_type: must be income or expense"
	}

	amount, err := core.ParseMoney(field(cols, record, "amount"))
	if err != nil {
		return core.Transaction{}, "amount: must be a positive decimal"
	}

	occurredOn, err := core.ParseDate(field(cols, record, "occurred_on"))
	if err != nil {
		return core.Transaction{}, "occurred_on: must be a YYYY-MM-DD date"
	}

	currency := strings.ToUpper(field(cols, record, "currency"))
	if currency == "" {
		currency = core.Currency
	}

	bucket := core.Bucket(strings.ToLower(field(cols, record, "bucket")))
	if bucket != "" && !bucket.Valid() {
		return core.Transaction{}, "bucket: must be necessary, controllable or unnecessary"
	}

	// Bucket inference for expenses happens in Transactions.Create.
	category := field(cols, record, "category")
	note := field(cols, record, "note")

	return core.Transaction{
		Type:       txType,
		Amount:     amount,
		Currency:   currency,
		Category:   category,
		Bucket:     bucket,
		OccurredOn: occurredOn,
		Note:       note,
	}, ""
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidTxType),
		errors.Is(err, core.ErrInvalidBucket),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidDate):
		return true
	}
	return false
}
