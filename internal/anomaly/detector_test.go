package anomaly

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwell/ledgerchat/internal/testutil"
)

func seedHistory(t *testing.T, db *testutil.TestDB, userID, category string, amounts ...string) {
	t.Helper()
	for _, amount := range amounts {
		db.SeedEntry(testutil.Expense(userID, category, "prior "+category, amount))
	}
}

func daytime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)
}

func TestCheckAmountDoubleMean(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	// Mean of prior dining spend is 20.
	seedHistory(t, db, "u1", "dining", "10", "20", "30")

	entry := testutil.Expense("u1", "dining", "team dinner", "41")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)

	require.Len(t, alerts, 1)
	assert.Equal(t, AlertUnusualAmount, alerts[0].Kind)
	assert.Contains(t, alerts[0].Message, "more than double")
}

func TestCheckAmountExactlyDoubleDoesNotFire(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	seedHistory(t, db, "u1", "dining", "10", "20", "30")

	// Exactly 2x the mean is not "more than double".
	entry := testutil.Expense("u1", "dining", "dinner", "40")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)
	assert.Empty(t, alerts)
}

func TestCheckAmountNoHistoryNoAlert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	entry := testutil.Expense("u1", "travel", "first flight ever", "2500")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)
	assert.Empty(t, alerts, "no baseline, no alert")
}

func TestCheckAmountExcludesEntryItself(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	seedHistory(t, db, "u1", "shopping", "10")

	// 25 > 2*10: would not fire if the new entry polluted its own
	// baseline (mean would become 17.5, threshold 35).
	entry := testutil.Expense("u1", "shopping", "gadget", "25")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertUnusualAmount, alerts[0].Kind)
}

func TestCheckAmountOtherUsersIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	seedHistory(t, db, "someone-else", "dining", "5", "5", "5")

	entry := testutil.Expense("u1", "dining", "dinner", "100")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)
	assert.Empty(t, alerts, "another user's history is not a baseline")
}

func TestCheckTimeWindow(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		wantFire bool
	}{
		{"3am fires", 3, true},
		{"5am fires", 5, true},
		{"6am does not fire", 6, false},
		{"noon does not fire", 12, false},
		{"11pm does not fire", 23, false},
		{"midnight fires", 0, true},
	}

	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := testutil.Expense("u-time", "other", "late snack", "5")
			entry.OccurredAt = time.Date(2026, 8, 15, tt.hour, 30, 0, 0, time.UTC)
			db.SeedEntry(entry)

			alerts := detector.Check(context.Background(), entry)

			fired := false
			for _, a := range alerts {
				if a.Kind == AlertLateNight {
					fired = true
				}
			}
			assert.Equal(t, tt.wantFire, fired)
		})
	}
}

func TestCheckIncomeSkipsAmountCheck(t *testing.T) {
	db := testutil.SetupTestDB(t)
	detector := NewDetector(db.Storage)

	seedHistory(t, db, "u1", "salary", "10")

	entry := testutil.Income("u1", "salary", "9999")
	entry.OccurredAt = daytime(t)
	db.SeedEntry(entry)

	alerts := detector.Check(context.Background(), entry)
	assert.Empty(t, alerts, "amount baselines only apply to expenses")
}
