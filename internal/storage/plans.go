package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/common"
	"github.com/fernwell/ledgerchat/internal/model"
)

// SaveBudget upserts a per-category budget; the same user, category
// and period replace in place.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(budget.UserID, "userID"); err != nil {
		return err
	}
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category, period, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, category, period) DO UPDATE SET amount = excluded.amount`,
		budget.ID.String(), budget.UserID, budget.Category, budget.Period,
		budget.Amount.String(), budget.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// GetBudgets lists a user's budgets.
func (s *SQLiteStorage) GetBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category, period, amount, created_at
		FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		var (
			b      model.Budget
			id     string
			amount string
		)
		if err := rows.Scan(&id, &b.UserID, &b.Category, &b.Period, &amount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt budget id %q: %w", id, err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt budget amount %q: %w", amount, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget by id.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// SaveGoal persists a savings goal.
func (s *SQLiteStorage) SaveGoal(ctx context.Context, goal *model.Goal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(goal.UserID, "userID"); err != nil {
		return err
	}
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	var deadline any
	if goal.Deadline != nil {
		deadline = goal.Deadline.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, name, target, saved, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		goal.ID.String(), goal.UserID, goal.Name, goal.Target.String(),
		goal.Saved.String(), deadline, goal.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// GetGoals lists a user's goals.
func (s *SQLiteStorage) GetGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target, saved, deadline, created_at
		FROM goals WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var (
			g        model.Goal
			id       string
			target   string
			saved    string
			deadline *time.Time
		)
		if err := rows.Scan(&id, &g.UserID, &g.Name, &target, &saved, &deadline, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if g.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt goal id %q: %w", id, err)
		}
		if g.Target, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("corrupt goal target %q: %w", target, err)
		}
		if g.Saved, err = decimal.NewFromString(saved); err != nil {
			return nil, fmt.Errorf("corrupt goal saved %q: %w", saved, err)
		}
		g.Deadline = deadline
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpdateGoalSaved sets the saved-so-far figure on a goal.
func (s *SQLiteStorage) UpdateGoalSaved(ctx context.Context, id uuid.UUID, saved decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE goals SET saved = ? WHERE id = ?`, saved.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// DeleteGoal removes a goal by id.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

// SaveIncomeSource persists a recurring income record. A user may only
// register each source name once; update the amount by deleting and
// re-adding.
func (s *SQLiteStorage) SaveIncomeSource(ctx context.Context, source *model.IncomeSource) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(source.UserID, "userID"); err != nil {
		return err
	}
	if source.ID == uuid.Nil {
		source.ID = uuid.New()
	}
	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now()
	}

	var existing int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM income_sources WHERE user_id = ? AND source = ?`,
		source.UserID, source.Source).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to check income source: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("income source %q already registered: %w", source.Source, common.ErrDuplicateEntry)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO income_sources (id, user_id, source, amount, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		source.ID.String(), source.UserID, source.Source, source.Amount.String(),
		source.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save income source: %w", err)
	}
	return nil
}

// GetIncomeSources lists a user's income sources.
func (s *SQLiteStorage) GetIncomeSources(ctx context.Context, userID string) ([]model.IncomeSource, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, source, amount, created_at
		FROM income_sources WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []model.IncomeSource
	for rows.Next() {
		var (
			src    model.IncomeSource
			id     string
			amount string
		)
		if err := rows.Scan(&id, &src.UserID, &src.Source, &amount, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		if src.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt income source id %q: %w", id, err)
		}
		if src.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("corrupt income amount %q: %w", amount, err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
