// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes money leaving the account from money entering it.
type EntryKind string

// Entry kind constants.
const (
	KindExpense EntryKind = "expense"
	KindIncome  EntryKind = "income"
)

// Provenance records how a financial entry reached the system.
type Provenance string

// Provenance constants.
const (
	ProvenanceManual  Provenance = "manual"
	ProvenanceChat    Provenance = "chat"
	ProvenanceVoice   Provenance = "voice"
	ProvenanceReceipt Provenance = "receipt"
	ProvenanceImport  Provenance = "import"
)

// FinancialEntry represents a single committed financial event.
// Entries are created exactly once at commit time and never mutated
// afterwards by the conversational core.
type FinancialEntry struct {
	OccurredAt  time.Time
	ID          uuid.UUID
	UserID      string
	Kind        EntryKind
	Category    string
	Description string
	Merchant    string
	Provenance  Provenance
	Amount      decimal.Decimal
	Confidence  *float64
}

// Validate checks the commit-time invariants of an entry.
func (e *FinancialEntry) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("entry missing user id")
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("entry amount must be positive, got %s", e.Amount)
	}
	switch e.Kind {
	case KindExpense, KindIncome:
	default:
		return fmt.Errorf("unknown entry kind %q", e.Kind)
	}
	if e.Description == "" {
		return fmt.Errorf("entry missing description")
	}
	return nil
}

// Normalize fills commit-time defaults: the fallback category, a fresh
// ID, and the current timestamp where absent. The amount is never
// defaulted; a missing amount is a validation error, not a default.
func (e *FinancialEntry) Normalize(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	if e.Provenance == "" {
		e.Provenance = ProvenanceManual
	}
}
