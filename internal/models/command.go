package models

import "time"

// Command statuses
const (
	CommandStatusPending   = "pending"
	CommandStatusCompleted = "completed"
	CommandStatusFailed    = "failed"
)

// Action tags identify which adapter branch produced a result. The dashboard
// uses them to pick icons and toasts, so they are part of the wire contract.
const (
	ActionEmailSent             = "email_sent"
	ActionEmailDraftAuthNeeded  = "email_draft_auth_required"
	ActionEmailDraftError       = "email_draft_error"
	ActionEmailGeneral          = "email_general"
	ActionCalendarQuery         = "calendar_query"
	ActionCalendarQueryEmpty    = "calendar_query_empty"
	ActionMeetingScheduledCloud = "meeting_scheduled_google"
	ActionMeetingScheduledLocal = "meeting_scheduled_local"
	ActionAuthRequired          = "auth_required"
	ActionTaskCreatedNotion     = "task_created_notion"
	ActionTaskCreatedLocal      = "task_created_local"
	ActionTaskGeneral           = "task_general"
	ActionVoiceNoteSaved        = "voice_note_saved"
	ActionVoiceDemo             = "voice_demo"
	ActionGeneralProcessing     = "general_processing"
	ActionGeneralDemo           = "general_demo"
)

// CommandRequest is the inbound command payload.
// The declared type is advisory; the rule matcher has the final say.
type CommandRequest struct {
	Command     string `json:"command"`
	CommandType string `json:"command_type,omitempty"`
}

// CommandResult is the structured result every adapter branch produces.
// Message is human-readable; Action is the machine-readable tag.
type CommandResult struct {
	Message   string                  `json:"message"`
	Action    string                  `json:"action"`
	Error     string                  `json:"error,omitempty"`
	Recipient string                  `json:"recipient,omitempty"`
	Subject   string                  `json:"subject,omitempty"`
	EventID   string                  `json:"event_id,omitempty"`
	TaskID    string                  `json:"task_id,omitempty"`
	NoteID    int64                   `json:"note_id,omitempty"`
	Events    []CalendarEventResponse `json:"events,omitempty"`
}

// CommandResponse is the transport envelope returned by the command endpoint
type CommandResponse struct {
	Success bool           `json:"success"`
	Result  *CommandResult `json:"result"`
}

// Command is a command-history row
type Command struct {
	ID          int64          `json:"id"`
	UserID      string         `json:"user_id"`
	CommandText string         `json:"command_text"`
	CommandType string         `json:"command_type"`
	Status      string         `json:"status"`
	Result      *CommandResult `json:"result,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
