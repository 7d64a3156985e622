package models

import "time"

// NotionTask mirrors a page from the user's Notion tasks database.
// Tasks created while Notion was not configured carry a "local-" page id.
type NotionTask struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	NotionPageID string     `json:"notion_page_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority,omitempty"`
	Progress     int        `json:"progress"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	URL          string     `json:"url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NotionTaskUpsert carries the mutable fields written on sync or creation
type NotionTaskUpsert struct {
	NotionPageID string
	Title        string
	Status       string
	Priority     string
	DueDate      *time.Time
	URL          string
}
