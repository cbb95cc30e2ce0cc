package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestNewPendingOperationMissingOrder(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		expense ExtractedExpense
		want    []Field
	}{
		{
			name:    "nothing extracted",
			expense: ExtractedExpense{},
			want:    []Field{FieldAmount, FieldDescription, FieldCategory},
		},
		{
			name:    "amount only",
			expense: ExtractedExpense{Amount: amt(t, "12.50")},
			want:    []Field{FieldDescription, FieldCategory},
		},
		{
			name:    "category known but amount missing",
			expense: ExtractedExpense{Name: "coffee", Category: "dining"},
			want:    []Field{FieldAmount},
		},
		{
			name:    "all present",
			expense: ExtractedExpense{Amount: amt(t, "5"), Name: "coffee", Category: "dining"},
			want:    nil,
		},
		{
			name:    "zero amount counts as missing",
			expense: ExtractedExpense{Amount: amt(t, "0"), Name: "coffee", Category: "dining"},
			want:    []Field{FieldAmount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPendingOperation("u1", tt.expense, now)
			if tt.want == nil {
				assert.True(t, p.Complete())
				assert.Equal(t, Field(""), p.NextMissing())
				return
			}
			assert.Equal(t, tt.want, p.Missing)
			assert.Equal(t, tt.want[0], p.NextMissing())
		})
	}
}

func TestPendingToEntry(t *testing.T) {
	now := time.Now()
	p := NewPendingOperation("u1", ExtractedExpense{
		Amount:   amt(t, "19.99"),
		Name:     "book",
		Category: "education",
		Merchant: "bookstore",
	}, now)
	require.True(t, p.Complete())

	entry := p.ToEntry(now)

	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, KindExpense, entry.Kind)
	assert.Equal(t, "book", entry.Description, "name backfills an empty description")
	assert.Equal(t, "education", entry.Category)
	assert.Equal(t, "bookstore", entry.Merchant)
	assert.Equal(t, ProvenanceChat, entry.Provenance)
	assert.NotEqual(t, entry.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.NoError(t, entry.Validate())
}

func TestEntryNormalizeDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	e := FinancialEntry{
		UserID:      "u1",
		Kind:        KindExpense,
		Amount:      decimal.RequireFromString("7"),
		Description: "snack",
	}
	e.Normalize(now)

	assert.Equal(t, CategoryOther, e.Category, "category defaults to other only at commit")
	assert.Equal(t, now, e.OccurredAt)
	assert.Equal(t, ProvenanceManual, e.Provenance)
}

func TestEntryValidate(t *testing.T) {
	valid := FinancialEntry{
		UserID:      "u1",
		Kind:        KindIncome,
		Amount:      decimal.RequireFromString("100"),
		Description: "salary",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		mutate func(*FinancialEntry)
		name   string
	}{
		{func(e *FinancialEntry) { e.UserID = "" }, "missing user"},
		{func(e *FinancialEntry) { e.Amount = decimal.Zero }, "zero amount"},
		{func(e *FinancialEntry) { e.Amount = decimal.RequireFromString("-5") }, "negative amount"},
		{func(e *FinancialEntry) { e.Kind = "transfer" }, "unknown kind"},
		{func(e *FinancialEntry) { e.Description = "" }, "missing description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}
