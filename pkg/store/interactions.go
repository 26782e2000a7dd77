package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Interaction is one append-only record of an operator action. Rows are never
// updated or deleted by this backend.
type Interaction struct {
	ID            string
	ChatID        string
	OperatorEmail string
	ActionType    string
	Details       map[string]any
	CreatedAt     time.Time
}

// AppendInteraction inserts one interaction row. A missing ID gets a fresh
// UUID and a zero CreatedAt gets the current time.
func (s *Store) AppendInteraction(ctx context.Context, entry Interaction) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Details == nil {
		entry.Details = map[string]any{}
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("encode interaction details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, chat_id, operator_email, action_type, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.ChatID, entry.OperatorEmail, entry.ActionType, string(details), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}

	return nil
}

// RecentInteractions returns the newest interactions, optionally filtered by
// chat id. Limit values below one default to 20.
func (s *Store) RecentInteractions(ctx context.Context, chatID string, limit int) ([]Interaction, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT id, chat_id, operator_email, action_type, details, created_at
		FROM interactions`
	args := []any{}
	if chatID != "" {
		query += " WHERE chat_id = ?"
		args = append(args, chatID)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var entries []Interaction
	for rows.Next() {
		var entry Interaction
		var details string
		if err := rows.Scan(&entry.ID, &entry.ChatID, &entry.OperatorEmail, &entry.ActionType, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &entry.Details); err != nil {
			entry.Details = map[string]any{"raw": details}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return entries, nil
}
