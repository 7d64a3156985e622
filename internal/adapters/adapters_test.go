package adapters

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"aura/internal/google"
	"aura/internal/models"
	"aura/internal/notion"
)

type fakeTokens struct {
	token string
}

func (f *fakeTokens) AccessToken(ctx context.Context, userID string) (string, error) {
	if f.token == "" {
		return "", fmt.Errorf("no usable google credential")
	}
	return f.token, nil
}

type fakeSender struct {
	fail bool
	sent []string
}

func (f *fakeSender) SendEmail(ctx context.Context, token, to, subject, body string) (*google.SendResult, error) {
	if f.fail {
		return nil, fmt.Errorf("gmail unavailable")
	}
	f.sent = append(f.sent, to)
	return &google.SendResult{ID: "msg-123", ThreadID: "thread-123"}, nil
}

type fakeEvents struct {
	fail    bool
	created []*google.Event
}

func (f *fakeEvents) CreateEvent(ctx context.Context, token string, event *google.Event) (*google.Event, error) {
	if f.fail {
		return nil, fmt.Errorf("calendar unavailable")
	}
	f.created = append(f.created, event)
	return &google.Event{ID: "evt-123", Summary: event.Summary, Start: event.Start, End: event.End}, nil
}

type fakeNotion struct {
	fail  bool
	pages []string
}

func (f *fakeNotion) CreatePage(ctx context.Context, token, databaseID, title, status string) (*notion.Page, error) {
	if f.fail {
		return nil, fmt.Errorf("notion unavailable")
	}
	f.pages = append(f.pages, title)
	return &notion.Page{ID: "page-123", URL: "https://notion.so/page-123", Title: title, Status: status}, nil
}

type fakeStore struct {
	emails     []*models.EmailUpsert
	events     []*models.CalendarEventUpsert
	tasks      []*models.NotionTaskUpsert
	notes      []*models.VoiceNote
	activities []*models.AgentActivity
	mirrored   []*models.CalendarEvent

	failVoice    bool
	failActivity bool
}

func (f *fakeStore) Upsert(ctx context.Context, userID string, email *models.EmailUpsert) error {
	f.emails = append(f.emails, email)
	return nil
}

func (f *fakeStore) UpsertEvent(ctx context.Context, userID string, event *models.CalendarEventUpsert) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]*models.CalendarEvent, error) {
	var matched []*models.CalendarEvent
	for _, event := range f.mirrored {
		if !event.StartTime.Before(from) && event.StartTime.Before(to) {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

func (f *fakeStore) UpsertTask(ctx context.Context, userID string, task *models.NotionTaskUpsert) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeStore) Create(ctx context.Context, userID string, note *models.VoiceNote) (int64, error) {
	if f.failVoice {
		return 0, fmt.Errorf("insert failed")
	}
	f.notes = append(f.notes, note)
	return int64(len(f.notes)), nil
}

func (f *fakeStore) Record(ctx context.Context, userID string, activity *models.AgentActivity) (int64, error) {
	if f.failActivity {
		return 0, fmt.Errorf("insert failed")
	}
	f.activities = append(f.activities, activity)
	return int64(len(f.activities)), nil
}

// calendarStore adapts fakeStore to the CalendarStore interface, since Upsert
// is taken by the email store method.
type calendarStore struct{ *fakeStore }

func (c calendarStore) Upsert(ctx context.Context, userID string, event *models.CalendarEventUpsert) error {
	return c.UpsertEvent(ctx, userID, event)
}

type taskStore struct{ *fakeStore }

func (t taskStore) Upsert(ctx context.Context, userID string, task *models.NotionTaskUpsert) error {
	return t.UpsertTask(ctx, userID, task)
}

func newTestAdapters(store *fakeStore, tokens *fakeTokens, sender *fakeSender, events *fakeEvents, tasks *fakeNotion, notionOK bool) *Adapters {
	return &Adapters{
		Tokens: tokens,
		Email:  sender,
		Events: events,
		Tasks:  tasks,
		NotionConfig: func(ctx context.Context, userID string) (string, string, bool) {
			if !notionOK {
				return "", "", false
			}
			return "secret", "db-1", true
		},
		Emails:     store,
		Calendar:   calendarStore{store},
		TaskMirror: taskStore{store},
		Voice:      store,
		Activities: store,
		Now: func() time.Time {
			return time.Date(2025, 3, 12, 10, 30, 0, 0, time.Local)
		},
	}
}

func TestHandleEmailWithoutToken(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleEmail(context.Background(), "user-1", "send email to bob@example.com about launch plan")

	if result.Action != models.ActionEmailDraftAuthNeeded {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionEmailDraftAuthNeeded)
	}
	if result.Recipient != "bob@example.com" {
		t.Errorf("recipient = %q", result.Recipient)
	}
	if len(store.emails) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(store.emails))
	}
	draft := store.emails[0]
	if draft.IsSent {
		t.Error("draft should not be marked sent")
	}
	if !strings.HasPrefix(draft.MessageID, models.LocalIDPrefix) {
		t.Errorf("draft id %q should have local prefix", draft.MessageID)
	}
	if draft.Subject != "launch plan" {
		t.Errorf("subject = %q", draft.Subject)
	}
}

func TestHandleEmailSends(t *testing.T) {
	store := &fakeStore{}
	sender := &fakeSender{}
	a := newTestAdapters(store, &fakeTokens{token: "tok"}, sender, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleEmail(context.Background(), "user-1", "send email to bob@example.com with subject weekly update")

	if result.Action != models.ActionEmailSent {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionEmailSent)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "bob@example.com" {
		t.Errorf("sent = %v", sender.sent)
	}
	if len(store.emails) != 1 || !store.emails[0].IsSent {
		t.Fatalf("expected one sent mirror record")
	}
	if store.emails[0].MessageID != "msg-123" {
		t.Errorf("mirror should use provider message id, got %q", store.emails[0].MessageID)
	}
}

func TestHandleEmailProviderFailure(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{token: "tok"}, &fakeSender{fail: true}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleEmail(context.Background(), "user-1", "send email to bob@example.com about retro")

	if result.Action != models.ActionEmailDraftError {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionEmailDraftError)
	}
	if result.Error == "" {
		t.Error("expected error detail in result")
	}
	if len(store.emails) != 1 || store.emails[0].IsSent {
		t.Fatal("expected an unsent draft record")
	}
}

func TestHandleEmailUnparseable(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{token: "tok"}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleEmail(context.Background(), "user-1", "send email sometime")

	if result.Action != models.ActionEmailGeneral {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionEmailGeneral)
	}
	if len(store.emails) != 0 {
		t.Error("unparseable command should not write records")
	}
}

func TestHandleCalendarQuery(t *testing.T) {
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	store := &fakeStore{
		mirrored: []*models.CalendarEvent{
			{GoogleEventID: "evt-1", Title: "Standup", StartTime: today.Add(9 * time.Hour)},
			{GoogleEventID: "local-2", Title: "Focus block", StartTime: today.Add(14 * time.Hour)},
		},
	}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "what's on my calendar today?")

	if result.Action != models.ActionCalendarQuery {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionCalendarQuery)
	}
	if len(result.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(result.Events))
	}
	if !result.Events[1].IsLocal {
		t.Error("local event should be flagged")
	}
}

func TestHandleCalendarQuerySkipsEarlierStarts(t *testing.T) {
	// An offsite that started yesterday is still running at query time, but
	// "calendar today" only lists events that start today.
	today := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	store := &fakeStore{
		mirrored: []*models.CalendarEvent{
			{GoogleEventID: "evt-offsite", Title: "Offsite", StartTime: today.AddDate(0, 0, -1), EndTime: today.Add(18 * time.Hour)},
			{GoogleEventID: "evt-standup", Title: "Standup", StartTime: today.Add(9 * time.Hour), EndTime: today.Add(10 * time.Hour)},
		},
	}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "calendar today")

	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Events))
	}
	if result.Events[0].Title != "Standup" {
		t.Errorf("event = %q, want Standup", result.Events[0].Title)
	}
}

func TestHandleCalendarQueryEmpty(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "calendar today")

	if result.Action != models.ActionCalendarQueryEmpty {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionCalendarQueryEmpty)
	}
}

func TestHandleCalendarCreate(t *testing.T) {
	store := &fakeStore{}
	events := &fakeEvents{}
	a := newTestAdapters(store, &fakeTokens{token: "tok"}, &fakeSender{}, events, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "schedule a meeting with design tomorrow 2pm")

	if result.Action != models.ActionMeetingScheduledCloud {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionMeetingScheduledCloud)
	}
	if result.EventID != "evt-123" {
		t.Errorf("event id = %q", result.EventID)
	}
	if len(events.created) != 1 {
		t.Fatalf("expected provider create")
	}
	if len(store.events) != 1 || store.events[0].Status != "confirmed" {
		t.Fatalf("expected confirmed mirror record, got %+v", store.events)
	}
	wantStart := time.Date(2025, 3, 13, 14, 0, 0, 0, time.Local)
	if !store.events[0].StartTime.Equal(wantStart) {
		t.Errorf("start = %v, want %v", store.events[0].StartTime, wantStart)
	}
}

func TestHandleCalendarCreateProviderFailure(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{token: "tok"}, &fakeSender{}, &fakeEvents{fail: true}, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "schedule sync tomorrow 3pm")

	if result.Action != models.ActionMeetingScheduledLocal {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionMeetingScheduledLocal)
	}
	if len(store.events) != 1 {
		t.Fatal("expected local mirror record")
	}
	event := store.events[0]
	if event.Status != "tentative" {
		t.Errorf("status = %q, want tentative", event.Status)
	}
	if !strings.HasPrefix(event.GoogleEventID, models.LocalIDPrefix) {
		t.Errorf("event id %q should have local prefix", event.GoogleEventID)
	}
}

func TestHandleCalendarCreateWithoutToken(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleCalendar(context.Background(), "user-1", "schedule planning tomorrow")

	if result.Action != models.ActionAuthRequired {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionAuthRequired)
	}
	if len(store.events) != 0 {
		t.Error("no mirror write expected without a token")
	}
}

func TestHandleTaskWithNotion(t *testing.T) {
	store := &fakeStore{}
	notionAPI := &fakeNotion{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, notionAPI, true)

	result := a.HandleTask(context.Background(), "user-1", "create task: review pull requests")

	if result.Action != models.ActionTaskCreatedNotion {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionTaskCreatedNotion)
	}
	if result.TaskID != "page-123" {
		t.Errorf("task id = %q", result.TaskID)
	}
	if len(store.tasks) != 1 || store.tasks[0].URL == "" {
		t.Fatalf("expected mirrored task with url, got %+v", store.tasks)
	}
}

func TestHandleTaskLocalFallback(t *testing.T) {
	tests := []struct {
		name       string
		notionOK   bool
		notionFail bool
	}{
		{"not configured", false, false},
		{"provider failure", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{fail: tt.notionFail}, tt.notionOK)

			result := a.HandleTask(context.Background(), "user-1", "create task: ship the beta")

			if result.Action != models.ActionTaskCreatedLocal {
				t.Fatalf("action = %q, want %q", result.Action, models.ActionTaskCreatedLocal)
			}
			if len(store.tasks) != 1 {
				t.Fatal("expected local task record")
			}
			task := store.tasks[0]
			if task.Status != "To Do" {
				t.Errorf("status = %q, want To Do", task.Status)
			}
			if !strings.HasPrefix(task.NotionPageID, models.LocalIDPrefix) {
				t.Errorf("page id %q should have local prefix", task.NotionPageID)
			}
		})
	}
}

func TestHandleTaskUnparseable(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleTask(context.Background(), "user-1", "update task board")

	if result.Action != models.ActionTaskGeneral {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionTaskGeneral)
	}
	if len(store.tasks) != 0 {
		t.Error("unparseable command should not write records")
	}
}

func TestHandleVoice(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	text := "record note this is urgent, call the vendor back"
	result := a.HandleVoice(context.Background(), "user-1", text)

	if result.Action != models.ActionVoiceNoteSaved {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionVoiceNoteSaved)
	}
	if len(store.notes) != 1 {
		t.Fatal("expected a stored note")
	}
	note := store.notes[0]
	if !note.IsUrgent {
		t.Error("note containing 'urgent' should be flagged")
	}
	if note.DurationSeconds != len(text)/5 {
		t.Errorf("duration = %d, want %d", note.DurationSeconds, len(text)/5)
	}
	if !strings.HasPrefix(note.Title, "Voice note - ") {
		t.Errorf("title = %q", note.Title)
	}
}

func TestHandleVoiceStoreFailure(t *testing.T) {
	store := &fakeStore{failVoice: true}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleVoice(context.Background(), "user-1", "record note hello")

	if result.Action != models.ActionVoiceDemo {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionVoiceDemo)
	}
}

func TestHandleGeneral(t *testing.T) {
	store := &fakeStore{}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleGeneral(context.Background(), "user-1", "summarize my week")

	if result.Action != models.ActionGeneralProcessing {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionGeneralProcessing)
	}
	if len(store.activities) != 1 {
		t.Fatal("expected an activity record")
	}
	activity := store.activities[0]
	if activity.AgentName != "Command Processor" {
		t.Errorf("agent = %q", activity.AgentName)
	}
	if activity.Progress != 100 {
		t.Errorf("progress = %d, want 100", activity.Progress)
	}
	if activity.LastAction != "Command interpreted" {
		t.Errorf("last action = %q", activity.LastAction)
	}
}

func TestHandleGeneralStoreFailure(t *testing.T) {
	store := &fakeStore{failActivity: true}
	a := newTestAdapters(store, &fakeTokens{}, &fakeSender{}, &fakeEvents{}, &fakeNotion{}, false)

	result := a.HandleGeneral(context.Background(), "user-1", "hello")

	if result.Action != models.ActionGeneralDemo {
		t.Fatalf("action = %q, want %q", result.Action, models.ActionGeneralDemo)
	}
}
