package models

import "time"

// Email is a mirror record of a Gmail message (or a locally created draft).
// MessageID is the provider-assigned id, unique per user; drafts that never
// reached Gmail carry a synthetic "local-" id.
type Email struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	MessageID       string     `json:"message_id"`
	ThreadID        string     `json:"thread_id,omitempty"`
	Subject         string     `json:"subject"`
	SenderEmail     string     `json:"sender_email"`
	RecipientEmails []string   `json:"recipient_emails"`
	BodyPreview     string     `json:"body_preview"`
	IsSent          bool       `json:"is_sent"`
	IsReply         bool       `json:"is_reply"`
	ReceivedAt      *time.Time `json:"received_at,omitempty"`
	Labels          []string   `json:"labels"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EmailUpsert carries the mutable fields written on sync or command creation
type EmailUpsert struct {
	MessageID       string
	ThreadID        string
	Subject         string
	SenderEmail     string
	RecipientEmails []string
	BodyPreview     string
	IsSent          bool
	IsReply         bool
	ReceivedAt      *time.Time
	Labels          []string
}
