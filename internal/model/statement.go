package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowStatus is the statement's own word for whether a transaction went
// through. Anything that looks like a failure is skipped before
// classification.
type RowStatus string

// Row status constants.
const (
	RowStatusCompleted RowStatus = "completed"
	RowStatusFailed    RowStatus = "failed"
	RowStatusUnknown   RowStatus = "unknown"
)

// RawRow is one transaction row as parsed from a statement, before any
// classification. Negative indicates the source marked the amount as a
// debit; the sign heuristic downstream maps that to an expense.
type RawRow struct {
	Date     time.Time
	Name     string
	Bank     string
	Status   RowStatus
	Amount   decimal.Decimal
	Negative bool
	Line     int
}

// RowError records one row that could not be imported. A row error
// never aborts the batch.
type RowError struct {
	Line   int
	Reason string
}

// ImportTotals aggregates the amounts of successfully imported rows.
type ImportTotals struct {
	Expenses    decimal.Decimal
	Income      decimal.Decimal
	PerCategory map[string]decimal.Decimal
}

// ImportSummary is the outcome of one statement import.
type ImportSummary struct {
	Totals    ImportTotals
	Errors    []RowError
	Processed int
	Imported  int
	Skipped   int
}
