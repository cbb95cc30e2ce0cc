// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fernwell/ledgerchat/internal/model"
)

// EntryFilter defines filtering options for financial entry queries.
type EntryFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Kind      model.EntryKind
	Category  string
	Limit     int
}

// Storage defines the contract for the persistence collaborator. The
// conversational core only ever talks to this interface; the concrete
// SQLite implementation lives in internal/storage.
type Storage interface {
	// Financial entry operations.
	SaveEntry(ctx context.Context, entry *model.FinancialEntry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*model.FinancialEntry, error)
	GetEntries(ctx context.Context, userID string, filter EntryFilter) ([]model.FinancialEntry, error)
	GetEntriesByCategory(ctx context.Context, userID, category string) ([]model.FinancialEntry, error)

	// Conversation history: append-only with bounded recall.
	AppendTurn(ctx context.Context, turn *model.ConversationTurn) error
	RecentTurns(ctx context.Context, userID string, n int) ([]model.ConversationTurn, error)

	// Budget, goal and income source CRUD.
	SaveBudget(ctx context.Context, budget *model.Budget) error
	GetBudgets(ctx context.Context, userID string) ([]model.Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
	SaveGoal(ctx context.Context, goal *model.Goal) error
	GetGoals(ctx context.Context, userID string) ([]model.Goal, error)
	UpdateGoalSaved(ctx context.Context, id uuid.UUID, saved decimal.Decimal) error
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	SaveIncomeSource(ctx context.Context, source *model.IncomeSource) error
	GetIncomeSources(ctx context.Context, userID string) ([]model.IncomeSource, error)

	// AggregateSnapshot computes balance and running totals for a user.
	AggregateSnapshot(ctx context.Context, userID string) (*model.AggregateSnapshot, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures the gateway's call budget. MaxAttempts counts
// every provider call made for one logical request, primary and
// fallback together; the gateway never exceeds it.
type RetryOptions struct {
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultRetryOptions is the gateway's one-primary-plus-one-fallback
// budget.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxAttempts: 2, Timeout: 30 * time.Second}
}
