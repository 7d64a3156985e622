package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"aura/internal/database"
	"aura/internal/models"
)

// HistoryService owns the command_history table
type HistoryService struct {
	db *database.DB
}

// NewHistoryService creates a command history store
func NewHistoryService(db *database.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record inserts a processed command with its result
func (s *HistoryService) Record(ctx context.Context, userID, commandText, commandType, status string, result *models.CommandResult) error {
	var resultJSON interface{}
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode command result: %w", err)
		}
		resultJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_history (user_id, command_text, command_type, status, result)
		VALUES (?, ?, ?, ?, ?)`,
		userID, commandText, commandType, status, resultJSON)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// ListByUser returns command history newest first
func (s *HistoryService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Command, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, command_text, command_type, status, result, created_at
		FROM command_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list command history: %w", err)
	}
	defer rows.Close()

	commands := make([]*models.Command, 0)
	for rows.Next() {
		var cmd models.Command
		var resultJSON sql.NullString

		err := rows.Scan(&cmd.ID, &cmd.UserID, &cmd.CommandText, &cmd.CommandType,
			&cmd.Status, &resultJSON, &cmd.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}

		if resultJSON.Valid && resultJSON.String != "" {
			var result models.CommandResult
			if err := json.Unmarshal([]byte(resultJSON.String), &result); err == nil {
				cmd.Result = &result
			}
		}
		commands = append(commands, &cmd)
	}
	return commands, rows.Err()
}
