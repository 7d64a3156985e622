package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"aura/internal/database"
	"aura/internal/models"
)

// openTestDB connects to the MySQL instance named by TEST_DATABASE_URL.
// These tests exercise the ON DUPLICATE KEY UPDATE paths against a real
// server, so they skip when no instance is available.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.New(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}
	return db
}

func TestCalendarUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewCalendarService(db)
	ctx := context.Background()
	userID := uuid.New().String()

	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	first := &models.CalendarEventUpsert{
		GoogleEventID: "evt-idem-1",
		Title:         "Planning",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        "tentative",
	}
	if err := svc.Upsert(ctx, userID, first); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	second := &models.CalendarEventUpsert{
		GoogleEventID: "evt-idem-1",
		Title:         "Planning (moved)",
		Location:      "Room 4",
		StartTime:     start.Add(time.Hour),
		EndTime:       start.Add(2 * time.Hour),
		Status:        "confirmed",
	}
	if err := svc.Upsert(ctx, userID, second); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM calendar_events WHERE user_id = ? AND google_event_id = ?",
		userID, "evt-idem-1").Scan(&count)
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected exactly 1 row after double upsert, got %d", count)
	}

	events, err := svc.ListByUser(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Title != "Planning (moved)" || got.Location != "Room 4" || got.Status != "confirmed" {
		t.Errorf("Row should carry the second call's fields, got %+v", got)
	}
	if !got.StartTime.Equal(second.StartTime) {
		t.Errorf("Start = %v, want %v", got.StartTime, second.StartTime)
	}
}

func TestEmailUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewEmailService(db)
	ctx := context.Background()
	userID := uuid.New().String()

	if err := svc.Upsert(ctx, userID, &models.EmailUpsert{
		MessageID: "msg-idem-1",
		Subject:   "first pass",
	}); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := svc.Upsert(ctx, userID, &models.EmailUpsert{
		MessageID:   "msg-idem-1",
		Subject:     "second pass",
		BodyPreview: "updated snippet",
		IsSent:      true,
	}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	emails, err := svc.ListByUser(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("Expected 1 email, got %d", len(emails))
	}
	if emails[0].Subject != "second pass" || !emails[0].IsSent {
		t.Errorf("Row should carry the second call's fields, got %+v", emails[0])
	}
}

func TestTaskUpsertIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewTaskService(db)
	ctx := context.Background()
	userID := uuid.New().String()

	if err := svc.Upsert(ctx, userID, &models.NotionTaskUpsert{
		NotionPageID: "page-idem-1",
		Title:        "Draft report",
	}); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}
	if err := svc.Upsert(ctx, userID, &models.NotionTaskUpsert{
		NotionPageID: "page-idem-1",
		Title:        "Draft report",
		Status:       "In Progress",
		Priority:     "High",
	}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	tasks, err := svc.ListByUser(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Status != "In Progress" || tasks[0].Priority != "High" {
		t.Errorf("Row should carry the second call's fields, got %+v", tasks[0])
	}
}

func TestCalendarListBetweenFiltersOnStart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCalendarService(db)
	ctx := context.Background()
	userID := uuid.New().String()

	dayStart := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Started the day before and still running inside the window
	if err := svc.Upsert(ctx, userID, &models.CalendarEventUpsert{
		GoogleEventID: "evt-offsite",
		Title:         "Offsite",
		StartTime:     dayStart.AddDate(0, 0, -1),
		EndTime:       dayStart.Add(18 * time.Hour),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := svc.Upsert(ctx, userID, &models.CalendarEventUpsert{
		GoogleEventID: "evt-standup",
		Title:         "Standup",
		StartTime:     dayStart.Add(9 * time.Hour),
		EndTime:       dayStart.Add(10 * time.Hour),
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	events, err := svc.ListBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		t.Fatalf("ListBetween failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event starting in the window, got %d", len(events))
	}
	if events[0].Title != "Standup" {
		t.Errorf("Event = %q, want Standup", events[0].Title)
	}
}
