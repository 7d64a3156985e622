package models

import "time"

// VoiceNote is a transcript-first note record. Audio itself is never stored,
// only the transcription and derived metadata.
type VoiceNote struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Transcription   string    `json:"transcription"`
	DurationSeconds int       `json:"duration_seconds"`
	IsUrgent        bool      `json:"is_urgent"`
	CreatedAt       time.Time `json:"created_at"`
}
