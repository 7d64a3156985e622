package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aura/internal/database"
	"aura/internal/models"
)

// ActivityService owns the agent_activities table
type ActivityService struct {
	db *database.DB
}

// NewActivityService creates an activity store
func NewActivityService(db *database.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record inserts an activity row and returns its id
func (s *ActivityService) Record(ctx context.Context, userID string, activity *models.AgentActivity) (int64, error) {
	var completedAt interface{}
	if activity.Status == "completed" {
		completedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_activities (user_id, agent_name, task_description, status, progress, last_action, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, activity.AgentName, activity.Task, activity.Status, activity.Progress,
		activity.LastAction, completedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record activity: %w", err)
	}
	return result.LastInsertId()
}

// ListByUser returns activities newest first
func (s *ActivityService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.AgentActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, agent_name, task_description, status, progress, last_action, completed_at, created_at
		FROM agent_activities
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]*models.AgentActivity, 0)
	for rows.Next() {
		var activity models.AgentActivity
		var lastAction sql.NullString
		var completedAt sql.NullTime

		err := rows.Scan(&activity.ID, &activity.UserID, &activity.AgentName, &activity.Task,
			&activity.Status, &activity.Progress, &lastAction, &completedAt, &activity.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		activity.LastAction = lastAction.String
		if completedAt.Valid {
			t := completedAt.Time
			activity.CompletedAt = &t
		}
		activities = append(activities, &activity)
	}
	return activities, rows.Err()
}
