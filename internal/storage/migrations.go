package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// Amounts are stored as TEXT so decimals round-trip
				// without floating point loss.
				`CREATE TABLE IF NOT EXISTS entries (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					kind TEXT NOT NULL,
					amount TEXT NOT NULL,
					category TEXT NOT NULL,
					description TEXT NOT NULL,
					merchant TEXT,
					occurred_at DATETIME NOT NULL,
					provenance TEXT NOT NULL,
					confidence REAL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_entries_user ON entries(user_id)`,
				`CREATE INDEX idx_entries_user_category ON entries(user_id, category)`,
				`CREATE INDEX idx_entries_occurred ON entries(occurred_at)`,

				`CREATE TABLE IF NOT EXISTS turns (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					user_text TEXT NOT NULL,
					response_text TEXT NOT NULL,
					intent TEXT NOT NULL,
					payload TEXT,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_turns_user_created ON turns(user_id, created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Budgets, goals and income sources",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					category TEXT NOT NULL,
					period TEXT NOT NULL,
					amount TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					UNIQUE(user_id, category, period)
				)`,
				`CREATE TABLE IF NOT EXISTS goals (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					name TEXT NOT NULL,
					target TEXT NOT NULL,
					saved TEXT NOT NULL DEFAULT '0',
					deadline DATETIME,
					created_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS income_sources (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					source TEXT NOT NULL,
					amount TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_budgets_user ON budgets(user_id)`,
				`CREATE INDEX idx_goals_user ON goals(user_id)`,
				`CREATE INDEX idx_income_sources_user ON income_sources(user_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// SchemaVersion reports the database's current schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
