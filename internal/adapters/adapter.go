// Package adapters turns classified commands into provider calls and mirror
// writes. Every adapter returns a result, never an error: provider failures
// degrade to locally persisted records so the user always sees something.
package adapters

import (
	"context"
	"time"

	"aura/internal/google"
	"aura/internal/models"
	"aura/internal/notion"
)

// TokenSource resolves a Google access token for a user. An error means the
// user has no usable credential, not a system fault.
type TokenSource interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// EmailSender sends mail through the provider
type EmailSender interface {
	SendEmail(ctx context.Context, accessToken, to, subject, body string) (*google.SendResult, error)
}

// EventCreator writes events to the provider calendar
type EventCreator interface {
	CreateEvent(ctx context.Context, accessToken string, event *google.Event) (*google.Event, error)
}

// TaskCreator writes task pages to the task provider
type TaskCreator interface {
	CreatePage(ctx context.Context, token, databaseID, title, status string) (*notion.Page, error)
}

// NotionConfigFunc resolves a user's Notion connection. ok is false when the
// integration is not configured at all.
type NotionConfigFunc func(ctx context.Context, userID string) (token, databaseID string, ok bool)

// EmailStore mirrors email records
type EmailStore interface {
	Upsert(ctx context.Context, userID string, email *models.EmailUpsert) error
}

// CalendarStore mirrors calendar events and serves calendar queries.
// ListBetween returns events whose start falls in [from, to).
type CalendarStore interface {
	Upsert(ctx context.Context, userID string, event *models.CalendarEventUpsert) error
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error)
}

// TaskStore mirrors task records
type TaskStore interface {
	Upsert(ctx context.Context, userID string, task *models.NotionTaskUpsert) error
}

// VoiceStore persists voice notes
type VoiceStore interface {
	Create(ctx context.Context, userID string, note *models.VoiceNote) (int64, error)
}

// ActivityStore persists agent activity entries
type ActivityStore interface {
	Record(ctx context.Context, userID string, activity *models.AgentActivity) (int64, error)
}

// Adapters holds the dependencies shared by the command adapters
type Adapters struct {
	Tokens       TokenSource
	Email        EmailSender
	Events       EventCreator
	Tasks        TaskCreator
	NotionConfig NotionConfigFunc

	Emails     EmailStore
	Calendar   CalendarStore
	TaskMirror TaskStore
	Voice      VoiceStore
	Activities ActivityStore

	// Now is an injectable clock; defaults to time.Now
	Now func() time.Time
}

func (a *Adapters) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// accessToken resolves a token, treating a missing token source as
// auth-unavailable rather than an error.
func (a *Adapters) accessToken(ctx context.Context, userID string) string {
	if a.Tokens == nil {
		return ""
	}
	token, err := a.Tokens.AccessToken(ctx, userID)
	if err != nil {
		return ""
	}
	return token
}

// localID builds a synthetic external id for records that never reached the
// provider.
func (a *Adapters) localID() string {
	return models.LocalIDPrefix + a.now().UTC().Format("20060102150405.000")
}
