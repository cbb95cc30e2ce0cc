package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fernwell/ledgerchat/internal/model"
)

// AppendTurn records one conversation turn. Turns are append-only;
// there is deliberately no update path.
func (s *SQLiteStorage) AppendTurn(ctx context.Context, turn *model.ConversationTurn) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTurn(turn); err != nil {
		return err
	}

	if turn.ID == uuid.Nil {
		turn.ID = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (id, user_id, user_text, response_text, intent, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		turn.ID.String(),
		turn.UserID,
		turn.UserText,
		turn.ResponseText,
		string(turn.Intent),
		turn.Payload,
		turn.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// RecentTurns fetches the user's n most recent turns, newest first.
func (s *SQLiteStorage) RecentTurns(ctx context.Context, userID string, n int) ([]model.ConversationTurn, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = 5
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, user_text, response_text, intent, payload, created_at
		FROM turns WHERE user_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []model.ConversationTurn
	for rows.Next() {
		var (
			turn   model.ConversationTurn
			id     string
			intent string
		)
		if err := rows.Scan(&id, &turn.UserID, &turn.UserText, &turn.ResponseText, &intent, &turn.Payload, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt turn id %q: %w", id, err)
		}
		turn.Intent = model.IntentTag(intent)
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}
