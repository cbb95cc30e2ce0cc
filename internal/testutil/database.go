// Package testutil provides shared test helpers: in-memory databases
// with automatic cleanup and entry fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
	"github.com/fernwell/ledgerchat/internal/storage"
)

// TestDB wraps an in-memory migrated database for one test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. Migrations run
// automatically and the database is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedEntry saves one entry and fails the test on error.
func (db *TestDB) SeedEntry(entry *model.FinancialEntry) *model.FinancialEntry {
	db.t.Helper()
	entry.Normalize(time.Now())
	if err := db.Storage.SaveEntry(context.Background(), entry); err != nil {
		db.t.Fatalf("failed to seed entry: %v", err)
	}
	return entry
}

// Expense builds an expense entry fixture.
func Expense(userID, category, description string, amount string) *model.FinancialEntry {
	return &model.FinancialEntry{
		UserID:      userID,
		Kind:        model.KindExpense,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: description,
		Provenance:  model.ProvenanceChat,
	}
}

// Income builds an income entry fixture.
func Income(userID, source string, amount string) *model.FinancialEntry {
	return &model.FinancialEntry{
		UserID:      userID,
		Kind:        model.KindIncome,
		Amount:      decimal.RequireFromString(amount),
		Category:    source,
		Description: source + " income",
		Provenance:  model.ProvenanceChat,
	}
}

// Amount parses a decimal literal, failing the test on bad input.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}
