package models

import "time"

// Integration names recorded in user_integrations
const (
	IntegrationGmail    = "gmail"
	IntegrationCalendar = "google_calendar"
	IntegrationNotion   = "notion"
)

// UserIntegration records connection state and last successful sync for one
// provider. A row appears the first time a sync or credential store succeeds.
type UserIntegration struct {
	ID              int64      `json:"id"`
	UserID          string     `json:"user_id"`
	IntegrationType string     `json:"integration_type"`
	IsConnected     bool       `json:"is_connected"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
