package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"aura/internal/database"
	"aura/internal/models"
)

// CalendarService owns the calendar_events mirror table
type CalendarService struct {
	db *database.DB
}

// NewCalendarService creates a calendar mirror store
func NewCalendarService(db *database.DB) *CalendarService {
	return &CalendarService{db: db}
}

// Upsert writes an event row keyed on (user_id, google_event_id).
// Local events use synthetic ids, so a later provider sync never collides
// with them.
func (s *CalendarService) Upsert(ctx context.Context, userID string, event *models.CalendarEventUpsert) error {
	attendees, err := json.Marshal(event.Attendees)
	if err != nil {
		return fmt.Errorf("failed to encode attendees: %w", err)
	}

	status := event.Status
	if status == "" {
		status = "confirmed"
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calendar_events (user_id, google_event_id, title, description, location, start_time, end_time, attendees, meeting_link, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			title = VALUES(title),
			description = VALUES(description),
			location = VALUES(location),
			start_time = VALUES(start_time),
			end_time = VALUES(end_time),
			attendees = VALUES(attendees),
			meeting_link = VALUES(meeting_link),
			status = VALUES(status)`,
		userID, event.GoogleEventID, event.Title, event.Description, event.Location,
		event.StartTime.UTC(), event.EndTime.UTC(), string(attendees), event.MeetingLink, status)
	if err != nil {
		return fmt.Errorf("failed to upsert calendar event: %w", err)
	}
	return nil
}

// ListByUser returns upcoming events first, then past ones
func (s *CalendarService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.CalendarEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, google_event_id, title, description, location, start_time, end_time, attendees, meeting_link, status, created_at, updated_at
		FROM calendar_events
		WHERE user_id = ?
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListBetween returns events whose start falls in [from, to), in start order.
// This is what calendar queries read; they never call the provider. An event
// that started before the window is not "on" it, even if it is still running.
func (s *CalendarService) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, google_event_id, title, description, location, start_time, end_time, attendees, meeting_link, status, created_at, updated_at
		FROM calendar_events
		WHERE user_id = ? AND start_time >= ? AND start_time < ?
		ORDER BY start_time ASC`,
		userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]*models.CalendarEvent, error) {
	events := make([]*models.CalendarEvent, 0)
	for rows.Next() {
		var event models.CalendarEvent
		var description, location, attendees, meetingLink sql.NullString

		err := rows.Scan(&event.ID, &event.UserID, &event.GoogleEventID, &event.Title,
			&description, &location, &event.StartTime, &event.EndTime,
			&attendees, &meetingLink, &event.Status, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}

		event.Description = description.String
		event.Location = location.String
		event.MeetingLink = meetingLink.String
		if attendees.Valid && attendees.String != "" {
			_ = json.Unmarshal([]byte(attendees.String), &event.Attendees)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
