package adapters

import (
	"testing"
	"time"
)

func TestParseWindow(t *testing.T) {
	// Wednesday 10:30 local time
	now := time.Date(2025, 3, 12, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		command   string
		wantStart time.Time
	}{
		{
			name:      "no time info defaults to an hour from now",
			command:   "schedule meeting with design",
			wantStart: now.Add(time.Hour),
		},
		{
			name:      "tomorrow keeps the hour",
			command:   "schedule standup tomorrow",
			wantStart: time.Date(2025, 3, 13, 10, 0, 0, 0, time.Local),
		},
		{
			name:      "morning hour",
			command:   "schedule review at 9am",
			wantStart: time.Date(2025, 3, 12, 9, 0, 0, 0, time.Local),
		},
		{
			name:      "afternoon hour",
			command:   "schedule demo 2pm",
			wantStart: time.Date(2025, 3, 12, 14, 0, 0, 0, time.Local),
		},
		{
			name:      "noon",
			command:   "schedule lunch 12pm",
			wantStart: time.Date(2025, 3, 12, 12, 0, 0, 0, time.Local),
		},
		{
			name:      "midnight",
			command:   "schedule maintenance 12am",
			wantStart: time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "tomorrow with hour",
			command:   "schedule sync tomorrow 3pm",
			wantStart: time.Date(2025, 3, 13, 15, 0, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ParseWindow(tt.command, now)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if got := end.Sub(start); got != time.Hour {
				t.Errorf("duration = %v, want 1h", got)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"meeting with attendee", "schedule a meeting with design tomorrow 2pm", "design"},
		{"plain subject", "schedule meeting: quarterly review", "quarterly review"},
		{"no usable title", "schedule meeting tomorrow", "New Meeting"},
		{"task reminder", "schedule a task reminder for invoices", "invoices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.command); got != tt.want {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.command, got, tt.want)
			}
		})
	}
}
