// Package intent maps free-form command text to a handler category using an
// ordered substring rule table. First match wins; rule order is part of the
// behavior (an email rule outranks the calendar keywords, so "send email about
// the meeting" stays an email command).
package intent

import "strings"

// Intent is a command category
type Intent string

const (
	IntentEmail    Intent = "email"
	IntentTask     Intent = "task"
	IntentCalendar Intent = "calendar"
	IntentVoice    Intent = "voice"
	IntentGeneral  Intent = "general"
)

type rule struct {
	phrases []string
	intent  Intent
}

// Rule order is load-bearing: earlier rules win.
var rules = []rule{
	{phrases: []string{"send email"}, intent: IntentEmail},
	{phrases: []string{"create task", "update task"}, intent: IntentTask},
	{phrases: []string{"schedule", "calendar", "meeting"}, intent: IntentCalendar},
	{phrases: []string{"record note"}, intent: IntentVoice},
}

// Classify returns the intent for a command. Matching is case-insensitive
// substring containment; any phrase within a rule matches the whole rule, as
// does a declared type equal to the rule's intent. Commands matching no rule
// are general.
func Classify(command, declaredType string) Intent {
	lowered := strings.ToLower(command)
	declared := Intent(strings.ToLower(strings.TrimSpace(declaredType)))

	for _, r := range rules {
		if declared == r.intent {
			return r.intent
		}
		for _, phrase := range r.phrases {
			if strings.Contains(lowered, phrase) {
				return r.intent
			}
		}
	}
	return IntentGeneral
}
