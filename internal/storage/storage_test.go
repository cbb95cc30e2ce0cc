package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
)

func setupStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entry(userID, kind, category, amount string, occurred time.Time) *model.FinancialEntry {
	e := &model.FinancialEntry{
		UserID:      userID,
		Kind:        model.EntryKind(kind),
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: category + " entry",
		OccurredAt:  occurred,
	}
	e.Normalize(occurred)
	return e
}

func TestEntryRoundTripExactDecimal(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	// Amounts that would drift through float64 round exactly through
	// the TEXT column.
	saved := entry("u1", "expense", "dining", "0.1", time.Now().UTC())
	saved.Amount = decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))
	require.NoError(t, store.SaveEntry(ctx, saved))

	got, err := store.GetEntry(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.3", got.Amount.String())
	assert.Equal(t, saved.Description, got.Description)
	assert.Equal(t, saved.Kind, got.Kind)
}

func TestGetEntryNotFound(t *testing.T) {
	store := setupStorage(t)

	_, err := store.GetEntry(context.Background(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetEntriesFilter(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveEntry(ctx, entry("u1", "expense", "dining", "10", base)))
	require.NoError(t, store.SaveEntry(ctx, entry("u1", "expense", "travel", "200", base.AddDate(0, 0, 1))))
	require.NoError(t, store.SaveEntry(ctx, entry("u1", "income", "salary", "3000", base.AddDate(0, 0, 2))))
	require.NoError(t, store.SaveEntry(ctx, entry("u2", "expense", "dining", "99", base)))

	all, err := store.GetEntries(ctx, "u1", service.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "salary", all[0].Category, "newest first")

	expenses, err := store.GetEntries(ctx, "u1", service.EntryFilter{Kind: model.KindExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)

	dining, err := store.GetEntriesByCategory(ctx, "u1", "dining")
	require.NoError(t, err)
	require.Len(t, dining, 1)
	assert.Equal(t, "10", dining[0].Amount.String())

	start := base.AddDate(0, 0, 1)
	recent, err := store.GetEntries(ctx, "u1", service.EntryFilter{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := store.GetEntries(ctx, "u1", service.EntryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveEntryValidation(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	bad := entry("u1", "expense", "dining", "5", time.Now())
	bad.Amount = decimal.Zero
	assert.Error(t, store.SaveEntry(ctx, bad))

	var nilCtx context.Context
	assert.Error(t, store.SaveEntry(nilCtx, entry("u1", "expense", "dining", "5", time.Now())))
}

func TestTurnsAppendAndRecall(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	for i, text := range []string{"first", "second", "third"} {
		turn := &model.ConversationTurn{
			UserID:       "u1",
			UserText:     text,
			ResponseText: "ok",
			Intent:       model.IntentNone,
			CreatedAt:    time.Date(2026, 8, 1, 10, i, 0, 0, time.UTC),
		}
		require.NoError(t, store.AppendTurn(ctx, turn))
	}

	turns, err := store.RecentTurns(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "third", turns[0].UserText, "newest first")
	assert.Equal(t, "second", turns[1].UserText)
}

func TestBudgetUpsert(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	b := &model.Budget{UserID: "u1", Category: "dining", Period: "monthly", Amount: decimal.RequireFromString("400")}
	require.NoError(t, store.SaveBudget(ctx, b))

	b2 := &model.Budget{UserID: "u1", Category: "dining", Period: "monthly", Amount: decimal.RequireFromString("450")}
	require.NoError(t, store.SaveBudget(ctx, b2))

	budgets, err := store.GetBudgets(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, budgets, 1, "same user/category/period replaces in place")
	assert.Equal(t, "450", budgets[0].Amount.String())

	require.NoError(t, store.DeleteBudget(ctx, budgets[0].ID))
	budgets, err = store.GetBudgets(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestGoalLifecycle(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	deadline := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	g := &model.Goal{UserID: "u1", Name: "vacation", Target: decimal.RequireFromString("5000"), Deadline: &deadline}
	require.NoError(t, store.SaveGoal(ctx, g))

	goals, err := store.GetGoals(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "vacation", goals[0].Name)
	assert.Equal(t, "5000", goals[0].Target.String())
	assert.Equal(t, "0", goals[0].Saved.String())
	require.NotNil(t, goals[0].Deadline)

	require.NoError(t, store.UpdateGoalSaved(ctx, goals[0].ID, decimal.RequireFromString("1200.50")))
	goals, err = store.GetGoals(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "1200.5", goals[0].Saved.String())
}

func TestIncomeSources(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveIncomeSource(ctx, &model.IncomeSource{
		UserID: "u1", Source: "salary", Amount: decimal.RequireFromString("4200"),
	}))

	sources, err := store.GetIncomeSources(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "salary", sources[0].Source)
	assert.Equal(t, "4200", sources[0].Amount.String())
}

func TestSaveIncomeSourceRejectsDuplicate(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveIncomeSource(ctx, &model.IncomeSource{
		UserID: "u1", Source: "salary", Amount: decimal.RequireFromString("4200"),
	}))

	err := store.SaveIncomeSource(ctx, &model.IncomeSource{
		UserID: "u1", Source: "salary", Amount: decimal.RequireFromString("4500"),
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// Same source name under another user is fine.
	require.NoError(t, store.SaveIncomeSource(ctx, &model.IncomeSource{
		UserID: "u2", Source: "salary", Amount: decimal.RequireFromString("3100"),
	}))

	sources, err := store.GetIncomeSources(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "4200", sources[0].Amount.String())
}

func TestAggregateSnapshot(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveEntry(ctx, entry("u1", "income", "salary", "3000", now)))
	require.NoError(t, store.SaveEntry(ctx, entry("u1", "expense", "housing", "1200.45", now)))
	require.NoError(t, store.SaveEntry(ctx, entry("u1", "expense", "dining", "99.55", now)))
	require.NoError(t, store.SaveEntry(ctx, entry("someone-else", "expense", "dining", "1000", now)))

	snapshot, err := store.AggregateSnapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "3000", snapshot.TotalIncome.String())
	assert.Equal(t, "1300", snapshot.TotalExpenses.String())
	assert.Equal(t, "1700", snapshot.Balance.String())
}

func TestMigrateIdempotent(t *testing.T) {
	store := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}
