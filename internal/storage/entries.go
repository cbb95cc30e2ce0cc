package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/model"
	"github.com/fernwell/ledgerchat/internal/service"
)

// SaveEntry persists one financial entry.
func (s *SQLiteStorage) SaveEntry(ctx context.Context, entry *model.FinancialEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	var confidence any
	if entry.Confidence != nil {
		confidence = *entry.Confidence
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (
			id, user_id, kind, amount, category, description,
			merchant, occurred_at, provenance, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.UserID,
		string(entry.Kind),
		entry.Amount.String(),
		entry.Category,
		entry.Description,
		entry.Merchant,
		entry.OccurredAt.UTC(),
		string(entry.Provenance),
		confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// GetEntry fetches one entry by id.
func (s *SQLiteStorage) GetEntry(ctx context.Context, id uuid.UUID) (*model.FinancialEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, amount, category, description,
		       merchant, occurred_at, provenance, confidence
		FROM entries WHERE id = ?`, id.String())

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// GetEntries fetches a user's entries newest-first, honoring the filter.
func (s *SQLiteStorage) GetEntries(ctx context.Context, userID string, filter service.EntryFilter) ([]model.FinancialEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, kind, amount, category, description,
		       merchant, occurred_at, provenance, confidence
		FROM entries WHERE user_id = ?`
	args := []any{userID}

	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(filter.Kind))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.StartDate != nil {
		query += " AND occurred_at >= ?"
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query += " AND occurred_at < ?"
		args = append(args, filter.EndDate.UTC())
	}
	query += " ORDER BY occurred_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// GetEntriesByCategory fetches a user's entries in one category.
func (s *SQLiteStorage) GetEntriesByCategory(ctx context.Context, userID, category string) ([]model.FinancialEntry, error) {
	return s.GetEntries(ctx, userID, service.EntryFilter{Category: category})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.FinancialEntry, error) {
	var (
		entry      model.FinancialEntry
		id         string
		kind       string
		amount     string
		merchant   sql.NullString
		provenance string
		confidence sql.NullFloat64
		occurredAt time.Time
	)

	err := row.Scan(&id, &entry.UserID, &kind, &amount, &entry.Category,
		&entry.Description, &merchant, &occurredAt, &provenance, &confidence)
	if err != nil {
		return nil, err
	}

	entry.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt entry id %q: %w", id, err)
	}
	entry.Amount, err = decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("corrupt entry amount %q: %w", amount, err)
	}
	entry.Kind = model.EntryKind(kind)
	entry.Provenance = model.Provenance(provenance)
	entry.OccurredAt = occurredAt
	if merchant.Valid {
		entry.Merchant = merchant.String
	}
	if confidence.Valid {
		c := confidence.Float64
		entry.Confidence = &c
	}

	return &entry, nil
}

func collectEntries(rows *sql.Rows) ([]model.FinancialEntry, error) {
	var entries []model.FinancialEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}
