package adapters

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"aura/internal/google"
	"aura/internal/models"
)

var calendarQueryPhrases = []string{
	"what's on my calendar",
	"whats on my calendar",
	"calendar today",
	"schedule today",
}

// HandleCalendar answers calendar queries from the mirror and creates events
// through the provider, degrading to a tentative local event when the
// provider write fails.
func (a *Adapters) HandleCalendar(ctx context.Context, userID, command string) *models.CommandResult {
	lowered := strings.ToLower(command)
	for _, phrase := range calendarQueryPhrases {
		if strings.Contains(lowered, phrase) {
			return a.calendarQuery(ctx, userID)
		}
	}
	return a.calendarCreate(ctx, userID, command)
}

// calendarQuery reads today's events from the mirror. Queries never call the
// provider; background sync keeps the mirror fresh.
func (a *Adapters) calendarQuery(ctx context.Context, userID string) *models.CommandResult {
	now := a.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := a.Calendar.ListBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		log.Printf("⚠️  [COMMAND] Calendar query failed for user %s: %v", userID, err)
		events = nil
	}

	if len(events) == 0 {
		return &models.CommandResult{
			Message: "Your calendar is clear today",
			Action:  models.ActionCalendarQueryEmpty,
		}
	}

	responses := make([]models.CalendarEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, event.ToResponse())
	}

	return &models.CommandResult{
		Message: fmt.Sprintf("You have %d event(s) today", len(events)),
		Action:  models.ActionCalendarQuery,
		Events:  responses,
	}
}

func (a *Adapters) calendarCreate(ctx context.Context, userID, command string) *models.CommandResult {
	title := ExtractTitle(command)
	start, end := ParseWindow(command, a.now())

	token := a.accessToken(ctx, userID)
	if token == "" {
		// No token means we cannot even try; nothing is mirrored so a
		// later retry after connecting starts clean.
		return &models.CommandResult{
			Message: "Connect your Google account to schedule meetings",
			Action:  models.ActionAuthRequired,
		}
	}

	created, err := a.Events.CreateEvent(ctx, token, &google.Event{
		Summary: title,
		Start:   google.EventTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:     google.EventTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	})
	if err != nil {
		log.Printf("❌ [COMMAND] Calendar create failed for user %s: %v", userID, err)
		localEvent := &models.CalendarEventUpsert{
			GoogleEventID: a.localID(),
			Title:         title,
			StartTime:     start,
			EndTime:       end,
			Status:        "tentative",
		}
		if err := a.Calendar.Upsert(ctx, userID, localEvent); err != nil {
			log.Printf("⚠️  [COMMAND] Failed to mirror local event: %v", err)
		}
		return &models.CommandResult{
			Message: fmt.Sprintf("Could not reach Google Calendar; saved \"%s\" locally", title),
			Action:  models.ActionMeetingScheduledLocal,
			EventID: localEvent.GoogleEventID,
		}
	}

	if err := a.Calendar.Upsert(ctx, userID, &models.CalendarEventUpsert{
		GoogleEventID: created.ID,
		Title:         title,
		StartTime:     start,
		EndTime:       end,
		MeetingLink:   created.HangoutLink,
		Status:        "confirmed",
	}); err != nil {
		log.Printf("⚠️  [COMMAND] Failed to mirror created event: %v", err)
	}

	return &models.CommandResult{
		Message: fmt.Sprintf("Meeting \"%s\" scheduled for %s", title, start.Format("Mon Jan 2 3:04 PM")),
		Action:  models.ActionMeetingScheduledCloud,
		EventID: created.ID,
	}
}
