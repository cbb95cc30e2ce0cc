package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateSnapshot is the persistence layer's summary of a user's
// position. It is consumed by the calculators and the anomaly detector;
// this core never computes or owns it.
type AggregateSnapshot struct {
	Balance       decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
}

// Budget is a per-category spending cap.
type Budget struct {
	CreatedAt time.Time
	ID        uuid.UUID
	UserID    string
	Category  string
	Period    string // "weekly" or "monthly"
	Amount    decimal.Decimal
}

// Goal is a named savings target.
type Goal struct {
	CreatedAt time.Time
	Deadline  *time.Time
	ID        uuid.UUID
	UserID    string
	Name      string
	Target    decimal.Decimal
	Saved     decimal.Decimal
}

// IncomeSource is a recurring income record.
type IncomeSource struct {
	CreatedAt time.Time
	ID        uuid.UUID
	UserID    string
	Source    string
	Amount    decimal.Decimal
}
