package models

import (
	"strings"
	"time"
)

// LocalIDPrefix marks synthetic ids for records that never reached the
// provider, distinguishing them from provider-assigned ids.
const LocalIDPrefix = "local-"

// CalendarEvent is a mirror record of a Google Calendar event.
// Events created while the provider was unreachable carry a "local-" id and
// tentative status; a later successful sync never collides with them.
type CalendarEvent struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	GoogleEventID string    `json:"google_event_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Attendees     []string  `json:"attendees,omitempty"`
	MeetingLink   string    `json:"meeting_link,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsLocal reports whether the event only exists in the mirror
func (e *CalendarEvent) IsLocal() bool {
	return strings.HasPrefix(e.GoogleEventID, LocalIDPrefix)
}

// ToResponse converts an event to its dashboard representation
func (e *CalendarEvent) ToResponse() CalendarEventResponse {
	return CalendarEventResponse{
		GoogleEventID: e.GoogleEventID,
		Title:         e.Title,
		Location:      e.Location,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Status:        e.Status,
		IsLocal:       e.IsLocal(),
	}
}

// CalendarEventResponse is the compact event shape embedded in command results
type CalendarEventResponse struct {
	GoogleEventID string    `json:"google_event_id"`
	Title         string    `json:"title"`
	Location      string    `json:"location,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	IsLocal       bool      `json:"is_local,omitempty"`
}

// CalendarEventUpsert carries the mutable fields written on sync or creation
type CalendarEventUpsert struct {
	GoogleEventID string
	Title         string
	Description   string
	Location      string
	StartTime     time.Time
	EndTime       time.Time
	Attendees     []string
	MeetingLink   string
	Status        string
}
