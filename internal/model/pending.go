package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field names a required slot of a pending expense, in the fixed
// clarification order: amount, then description, then category.
type Field string

// Required field constants, in clarification order.
const (
	FieldAmount      Field = "amount"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
)

// RequiredFields is the fixed order in which missing fields are
// detected and asked about. The clarifying question always targets the
// first missing field in this order, never several at once.
var RequiredFields = []Field{FieldAmount, FieldDescription, FieldCategory}

// PendingOperation is the partially-filled financial entry a user is in
// the middle of supplying. At most one exists per user; it is cleared
// atomically on commit, abandonment, or reset.
type PendingOperation struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      string
	Name        string
	Description string
	Category    string
	Merchant    string
	Amount      *decimal.Decimal
	Missing     []Field
}

// NewPendingOperation builds a pending operation from one extracted
// expense, computing the ordered missing-field list.
func NewPendingOperation(userID string, ex ExtractedExpense, now time.Time) *PendingOperation {
	p := &PendingOperation{
		UserID:      userID,
		Name:        ex.Name,
		Description: ex.Description,
		Category:    ex.Category,
		Merchant:    ex.Merchant,
		Amount:      ex.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	p.RecomputeMissing()
	return p
}

// RecomputeMissing rebuilds the missing-field list in the fixed order.
func (p *PendingOperation) RecomputeMissing() {
	p.Missing = p.Missing[:0]
	for _, f := range RequiredFields {
		if !p.has(f) {
			p.Missing = append(p.Missing, f)
		}
	}
}

func (p *PendingOperation) has(f Field) bool {
	switch f {
	case FieldAmount:
		return p.Amount != nil && p.Amount.IsPositive()
	case FieldDescription:
		return p.Name != "" || p.Description != ""
	case FieldCategory:
		return p.Category != ""
	default:
		return true
	}
}

// NextMissing returns the first missing field, or "" when the operation
// is complete.
func (p *PendingOperation) NextMissing() Field {
	if len(p.Missing) == 0 {
		return ""
	}
	return p.Missing[0]
}

// Complete reports whether every required field is filled.
func (p *PendingOperation) Complete() bool {
	return len(p.Missing) == 0
}

// ToEntry converts a complete pending operation into a financial entry.
// Callers must have checked Complete first; Normalize and Validate
// still run at commit.
func (p *PendingOperation) ToEntry(now time.Time) FinancialEntry {
	desc := p.Description
	if desc == "" {
		desc = p.Name
	}
	var amount decimal.Decimal
	if p.Amount != nil {
		amount = *p.Amount
	}
	entry := FinancialEntry{
		UserID:      p.UserID,
		Kind:        KindExpense,
		Amount:      amount,
		Category:    p.Category,
		Description: desc,
		Merchant:    p.Merchant,
		Provenance:  ProvenanceChat,
	}
	entry.Normalize(now)
	return entry
}
