package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aura/internal/database"
	"aura/internal/models"
)

// IntegrationService owns the user_integrations table
type IntegrationService struct {
	db *database.DB
}

// NewIntegrationService creates an integration state store
func NewIntegrationService(db *database.DB) *IntegrationService {
	return &IntegrationService{db: db}
}

// MarkConnected upserts an integration row as connected
func (s *IntegrationService) MarkConnected(ctx context.Context, userID, integrationType string) error {
	return s.upsert(ctx, userID, integrationType, true, nil)
}

// MarkSynced upserts an integration row with a fresh last_sync timestamp
func (s *IntegrationService) MarkSynced(ctx context.Context, userID, integrationType string, syncedAt time.Time) error {
	t := syncedAt.UTC()
	return s.upsert(ctx, userID, integrationType, true, &t)
}

// MarkDisconnected flags an integration as disconnected, keeping last_sync
func (s *IntegrationService) MarkDisconnected(ctx context.Context, userID, integrationType string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE user_integrations SET is_connected = FALSE
		WHERE user_id = ? AND integration_type = ?`,
		userID, integrationType)
	if err != nil {
		return fmt.Errorf("failed to mark integration disconnected: %w", err)
	}
	return nil
}

func (s *IntegrationService) upsert(ctx context.Context, userID, integrationType string, connected bool, lastSync *time.Time) error {
	var syncValue interface{}
	if lastSync != nil {
		syncValue = *lastSync
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_integrations (user_id, integration_type, is_connected, last_sync)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			is_connected = VALUES(is_connected),
			last_sync = COALESCE(VALUES(last_sync), last_sync)`,
		userID, integrationType, connected, syncValue)
	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}
	return nil
}

// ListByUser returns all integration rows for a user
func (s *IntegrationService) ListByUser(ctx context.Context, userID string) ([]*models.UserIntegration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, integration_type, is_connected, last_sync, created_at, updated_at
		FROM user_integrations
		WHERE user_id = ?
		ORDER BY integration_type`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	integrations := make([]*models.UserIntegration, 0)
	for rows.Next() {
		var integration models.UserIntegration
		var lastSync sql.NullTime

		err := rows.Scan(&integration.ID, &integration.UserID, &integration.IntegrationType,
			&integration.IsConnected, &lastSync, &integration.CreatedAt, &integration.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}

		if lastSync.Valid {
			t := lastSync.Time
			integration.LastSync = &t
		}
		integrations = append(integrations, &integration)
	}
	return integrations, rows.Err()
}
