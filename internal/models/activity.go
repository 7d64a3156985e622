package models

import "time"

// AgentActivity tracks a named background worker and its most recent action.
// The dashboard renders these as live status cards.
type AgentActivity struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	AgentName   string     `json:"agent_name"`
	Status      string     `json:"status"`
	Task        string     `json:"task"`
	Progress    int        `json:"progress"`
	LastAction  string     `json:"last_action"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
