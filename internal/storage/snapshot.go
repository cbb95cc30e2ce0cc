package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
)

// AggregateSnapshot computes a user's running totals. Summation happens
// over the decimal strings in Go rather than SQLite's float arithmetic,
// so totals stay exact.
func (s *SQLiteStorage) AggregateSnapshot(ctx context.Context, userID string) (*model.AggregateSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, amount FROM entries WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregate: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := &model.AggregateSnapshot{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for rows.Next() {
		var kind, amountStr string
		if err := rows.Scan(&kind, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amountStr, err)
		}
		switch model.EntryKind(kind) {
		case model.KindIncome:
			snapshot.TotalIncome = snapshot.TotalIncome.Add(amount)
		case model.KindExpense:
			snapshot.TotalExpenses = snapshot.TotalExpenses.Add(amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregate rows: %w", err)
	}

	snapshot.Balance = snapshot.TotalIncome.Sub(snapshot.TotalExpenses)
	return snapshot, nil
}
