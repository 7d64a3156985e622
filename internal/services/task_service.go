package services

import (
	"context"
	"database/sql"
	"fmt"

	"aura/internal/database"
	"aura/internal/models"
)

// TaskService owns the notion_tasks mirror table
type TaskService struct {
	db *database.DB
}

// NewTaskService creates a task mirror store
func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

// Upsert writes a task row keyed on (user_id, notion_page_id)
func (s *TaskService) Upsert(ctx context.Context, userID string, task *models.NotionTaskUpsert) error {
	status := task.Status
	if status == "" {
		status = "To Do"
	}

	var dueDate interface{}
	if task.DueDate != nil {
		dueDate = task.DueDate.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notion_tasks (user_id, notion_page_id, title, status, priority, due_date, notion_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			status = VALUES(status),
			priority = VALUES(priority),
			due_date = VALUES(due_date),
			notion_url = VALUES(notion_url)`,
		userID, task.NotionPageID, task.Title, status, task.Priority, dueDate, task.URL)
	if err != nil {
		return fmt.Errorf("failed to upsert task: %w", err)
	}
	return nil
}

// ListByUser returns tasks newest first
func (s *TaskService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.NotionTask, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, notion_page_id, title, status, priority, progress, due_date, notion_url, created_at, updated_at
		FROM notion_tasks
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.NotionTask, 0)
	for rows.Next() {
		var task models.NotionTask
		var priority, url sql.NullString
		var dueDate sql.NullTime

		err := rows.Scan(&task.ID, &task.UserID, &task.NotionPageID, &task.Title, &task.Status,
			&priority, &task.Progress, &dueDate, &url, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Priority = priority.String
		task.URL = url.String
		if dueDate.Valid {
			t := dueDate.Time
			task.DueDate = &t
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}
