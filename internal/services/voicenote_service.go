package services

import (
	"context"
	"fmt"

	"aura/internal/database"
	"aura/internal/models"
)

// VoiceNoteService owns the voice_notes table
type VoiceNoteService struct {
	db *database.DB
}

// NewVoiceNoteService creates a voice note store
func NewVoiceNoteService(db *database.DB) *VoiceNoteService {
	return &VoiceNoteService{db: db}
}

// Create inserts a voice note and returns its id
func (s *VoiceNoteService) Create(ctx context.Context, userID string, note *models.VoiceNote) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO voice_notes (user_id, title, transcript, duration, is_urgent)
		VALUES (?, ?, ?, ?, ?)`,
		userID, note.Title, note.Transcription, note.DurationSeconds, note.IsUrgent)
	if err != nil {
		return 0, fmt.Errorf("failed to create voice note: %w", err)
	}
	return result.LastInsertId()
}

// ListByUser returns voice notes newest first
func (s *VoiceNoteService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.VoiceNote, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, transcript, duration, is_urgent, created_at
		FROM voice_notes
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list voice notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.VoiceNote, 0)
	for rows.Next() {
		var note models.VoiceNote
		err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Transcription,
			&note.DurationSeconds, &note.IsUrgent, &note.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voice note: %w", err)
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}
