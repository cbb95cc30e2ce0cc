package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fernwell/ledgerchat/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidEntry = errors.New("invalid entry")
	ErrInvalidTurn  = errors.New("invalid turn")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateEntry checks the persistence invariants of a financial entry.
// An entry without a positive amount never reaches a row.
func validateEntry(entry *model.FinancialEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	if entry.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidEntry)
	}
	if entry.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidEntry)
	}
	return nil
}

// validateTurn checks a conversation turn before appending it.
func validateTurn(turn *model.ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn", ErrNilParameter)
	}
	if turn.UserID == "" {
		return fmt.Errorf("%w: missing user id", ErrInvalidTurn)
	}
	if turn.UserText == "" {
		return fmt.Errorf("%w: missing user text", ErrInvalidTurn)
	}
	return nil
}
