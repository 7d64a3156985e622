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

// EmailService owns the emails mirror table
type EmailService struct {
	db *database.DB
}

// NewEmailService creates an email mirror store
func NewEmailService(db *database.DB) *EmailService {
	return &EmailService{db: db}
}

// Upsert writes an email row keyed on (user_id, message_id). Re-syncing the
// same message updates it in place instead of duplicating it.
func (s *EmailService) Upsert(ctx context.Context, userID string, email *models.EmailUpsert) error {
	recipients, err := json.Marshal(email.RecipientEmails)
	if err != nil {
		return fmt.Errorf("failed to encode recipients: %w", err)
	}
	labels, err := json.Marshal(email.Labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	var receivedAt interface{}
	if email.ReceivedAt != nil {
		receivedAt = email.ReceivedAt.UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emails (user_id, message_id, thread_id, subject, sender_email, recipient_emails, body_preview, is_sent, is_reply, received_at, labels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			thread_id = VALUES(thread_id),
			subject = VALUES(subject),
			sender_email = VALUES(sender_email),
			recipient_emails = VALUES(recipient_emails),
			body_preview = VALUES(body_preview),
			is_sent = VALUES(is_sent),
			is_reply = VALUES(is_reply),
			received_at = VALUES(received_at),
			labels = VALUES(labels)`,
		userID, email.MessageID, email.ThreadID, email.Subject, email.SenderEmail,
		string(recipients), email.BodyPreview, email.IsSent, email.IsReply, receivedAt, string(labels))
	if err != nil {
		return fmt.Errorf("failed to upsert email: %w", err)
	}
	return nil
}

// ListByUser returns emails newest first
func (s *EmailService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Email, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, message_id, thread_id, subject, sender_email, recipient_emails, body_preview, is_sent, is_reply, received_at, labels, created_at, updated_at
		FROM emails
		WHERE user_id = ?
		ORDER BY COALESCE(received_at, created_at) DESC
		LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	emails := make([]*models.Email, 0)
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func scanEmail(rows *sql.Rows) (*models.Email, error) {
	var email models.Email
	var threadID, subject, sender, preview sql.NullString
	var recipients, labels sql.NullString
	var receivedAt sql.NullTime

	err := rows.Scan(&email.ID, &email.UserID, &email.MessageID, &threadID, &subject, &sender,
		&recipients, &preview, &email.IsSent, &email.IsReply, &receivedAt, &labels,
		&email.CreatedAt, &email.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan email: %w", err)
	}

	email.ThreadID = threadID.String
	email.Subject = subject.String
	email.SenderEmail = sender.String
	email.BodyPreview = preview.String
	if receivedAt.Valid {
		t := receivedAt.Time
		email.ReceivedAt = &t
	}
	if recipients.Valid && recipients.String != "" {
		_ = json.Unmarshal([]byte(recipients.String), &email.RecipientEmails)
	}
	if labels.Valid && labels.String != "" {
		_ = json.Unmarshal([]byte(labels.String), &email.Labels)
	}
	return &email, nil
}

// CountSince returns how many mirrored emails arrived after the cutoff
func (s *EmailService) CountSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM emails
		WHERE user_id = ? AND COALESCE(received_at, created_at) >= ?`,
		userID, since.UTC()).Scan(&count)
	return count, err
}
