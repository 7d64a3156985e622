package intent

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		command      string
		declaredType string
		want         Intent
	}{
		{"send email", "Send email to bob about the launch", "", IntentEmail},
		{"email mentioning meeting stays email", "send email to team about tomorrow's meeting", "", IntentEmail},
		{"create task", "create task: review pull requests", "", IntentTask},
		{"update task", "update task status for onboarding", "", IntentTask},
		{"schedule meeting", "schedule a meeting with design tomorrow 2pm", "", IntentCalendar},
		{"schedule task reminder goes to calendar", "schedule a task reminder for friday", "", IntentCalendar},
		{"calendar query", "what's on my calendar today", "", IntentCalendar},
		{"record note", "record note we shipped the beta", "", IntentVoice},
		{"uppercase input", "SEND EMAIL TO alice hello there", "", IntentEmail},
		{"unmatched falls through", "summarize my week", "", IntentGeneral},
		{"empty command", "", "", IntentGeneral},
		{"declared type matches rule", "follow up with the vendor", "email", IntentEmail},
		{"declared type respects rule order", "send email to bob", "calendar", IntentEmail},
		{"unknown declared type ignored", "summarize my week", "fax", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.command, tt.declaredType); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.command, tt.declaredType, got, tt.want)
			}
		})
	}
}
