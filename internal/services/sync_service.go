package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"aura/internal/google"
	"aura/internal/logging"
	"aura/internal/models"
)

// Sync window and batch sizes. The list call is cheap; per-message detail
// fetches are the expensive part, so only the newest batch gets them.
const (
	gmailQuery        = "newer_than:7d"
	gmailListMax      = 50
	gmailDetailMax    = 20
	calendarLookAhead = 30 * 24 * time.Hour
	notionPageSize    = 100
)

// SyncService pulls recent provider data into the mirror tables
type SyncService struct {
	google       *google.Client
	tokens       *TokenService
	emails       *EmailService
	calendar     *CalendarService
	tasks        *TaskService
	integrations *IntegrationService
	notionConfig func(ctx context.Context, userID string) (string, string, bool)

	// Paces Gmail detail fetches across all users
	gmailLimiter *rate.Limiter
}

// NewSyncService creates a provider sync service
func NewSyncService(
	googleClient *google.Client,
	tokens *TokenService,
	emails *EmailService,
	calendar *CalendarService,
	tasks *TaskService,
	integrations *IntegrationService,
	notionConfig func(ctx context.Context, userID string) (string, string, bool),
) *SyncService {
	return &SyncService{
		google:       googleClient,
		tokens:       tokens,
		emails:       emails,
		calendar:     calendar,
		tasks:        tasks,
		integrations: integrations,
		notionConfig: notionConfig,
		gmailLimiter: rate.NewLimiter(rate.Limit(5), 5),
	}
}

// SyncGmail mirrors the user's recent mail. Returns how many messages were
// upserted.
func (s *SyncService) SyncGmail(ctx context.Context, userID string) (int, error) {
	start := time.Now()
	logger := logging.WithSync("gmail", userID)

	token, err := s.tokens.AccessToken(ctx, userID)
	if err != nil {
		s.markFailed(ctx, userID, models.IntegrationGmail, "gmail")
		return 0, fmt.Errorf("google account not connected")
	}

	refs, err := s.google.ListMessages(ctx, token, gmailQuery, gmailListMax)
	if err != nil {
		s.markFailed(ctx, userID, models.IntegrationGmail, "gmail")
		return 0, fmt.Errorf("gmail list failed: %w", err)
	}

	if len(refs) > gmailDetailMax {
		refs = refs[:gmailDetailMax]
	}

	synced := 0
	for _, ref := range refs {
		if err := s.gmailLimiter.Wait(ctx); err != nil {
			return synced, err
		}

		msg, err := s.google.GetMessage(ctx, token, ref.ID)
		if err != nil {
			logger.Warn("failed to fetch message", "message_id", ref.ID, "error", err)
			continue
		}

		upsert := &models.EmailUpsert{
			MessageID:   msg.ID,
			ThreadID:    msg.ThreadID,
			Subject:     msg.Header("Subject"),
			SenderEmail: msg.Header("From"),
			BodyPreview: msg.Snippet,
			IsSent:      msg.HasLabel("SENT"),
			IsReply:     msg.ThreadID != msg.ID,
			Labels:      msg.LabelIDs,
		}
		if to := msg.Header("To"); to != "" {
			for _, addr := range strings.Split(to, ",") {
				upsert.RecipientEmails = append(upsert.RecipientEmails, strings.TrimSpace(addr))
			}
		}
		if ms, err := strconv.ParseInt(msg.InternalDate, 10, 64); err == nil && ms > 0 {
			t := time.UnixMilli(ms).UTC()
			upsert.ReceivedAt = &t
		}

		if err := s.emails.Upsert(ctx, userID, upsert); err != nil {
			logger.Warn("failed to upsert email", "message_id", msg.ID, "error", err)
			continue
		}
		synced++
	}

	s.markSynced(ctx, userID, models.IntegrationGmail, "gmail", start)
	logger.Info("gmail sync complete", "synced", synced)
	return synced, nil
}

// SyncCalendar mirrors the next thirty days of the user's primary calendar
func (s *SyncService) SyncCalendar(ctx context.Context, userID string) (int, error) {
	start := time.Now()
	logger := logging.WithSync("calendar", userID)

	token, err := s.tokens.AccessToken(ctx, userID)
	if err != nil {
		s.markFailed(ctx, userID, models.IntegrationCalendar, "calendar")
		return 0, fmt.Errorf("google account not connected")
	}

	now := time.Now()
	events, err := s.google.ListEvents(ctx, token, now, now.Add(calendarLookAhead))
	if err != nil {
		s.markFailed(ctx, userID, models.IntegrationCalendar, "calendar")
		return 0, fmt.Errorf("calendar list failed: %w", err)
	}

	synced := 0
	for i := range events {
		event := &events[i]
		startTime, ok := event.When()
		if !ok {
			continue
		}
		endTime, ok := event.Until()
		if !ok {
			endTime = startTime.Add(time.Hour)
		}

		title := event.Summary
		if title == "" {
			title = "Untitled Event"
		}

		attendees := make([]string, 0, len(event.Attendees))
		for _, attendee := range event.Attendees {
			attendees = append(attendees, attendee.Email)
		}

		status := event.Status
		if status == "" {
			status = "confirmed"
		}

		err := s.calendar.Upsert(ctx, userID, &models.CalendarEventUpsert{
			GoogleEventID: event.ID,
			Title:         title,
			Description:   event.Description,
			Location:      event.Location,
			StartTime:     startTime,
			EndTime:       endTime,
			Attendees:     attendees,
			MeetingLink:   event.HangoutLink,
			Status:        status,
		})
		if err != nil {
			logger.Warn("failed to upsert event", "event_id", event.ID, "error", err)
			continue
		}
		synced++
	}

	s.markSynced(ctx, userID, models.IntegrationCalendar, "calendar", start)
	logger.Info("calendar sync complete", "synced", synced)
	return synced, nil
}

// SyncNotion mirrors the user's task database
func (s *SyncService) SyncNotion(ctx context.Context, userID string) (int, error) {
	start := time.Now()
	logger := logging.WithSync("notion", userID)

	token, databaseID, ok := s.notionConfig(ctx, userID)
	if !ok {
		s.markFailed(ctx, userID, models.IntegrationNotion, "notion")
		return 0, fmt.Errorf("notion integration not configured")
	}

	pages, err := newNotionClient(token).QueryDatabase(ctx, databaseID, notionPageSize)
	if err != nil {
		s.markFailed(ctx, userID, models.IntegrationNotion, "notion")
		return 0, fmt.Errorf("notion query failed: %w", err)
	}

	synced := 0
	for _, page := range pages {
		title := page.Title
		if title == "" {
			title = "Untitled"
		}
		status := page.Status
		if status == "" {
			status = "To Do"
		}

		upsert := &models.NotionTaskUpsert{
			NotionPageID: page.ID,
			Title:        title,
			Status:       status,
			Priority:     page.Priority,
			URL:          page.URL,
		}
		if page.DueDate != "" {
			if due, err := time.Parse("2006-01-02", page.DueDate); err == nil {
				upsert.DueDate = &due
			} else if due, err := time.Parse(time.RFC3339, page.DueDate); err == nil {
				upsert.DueDate = &due
			}
		}

		if err := s.tasks.Upsert(ctx, userID, upsert); err != nil {
			logger.Warn("failed to upsert task", "page_id", page.ID, "error", err)
			continue
		}
		synced++
	}

	s.markSynced(ctx, userID, models.IntegrationNotion, "notion", start)
	logger.Info("notion sync complete", "synced", synced)
	return synced, nil
}

// SyncAll runs every provider sync for a user, collecting per-provider
// results without aborting on individual failures.
func (s *SyncService) SyncAll(ctx context.Context, userID string) map[string]int {
	counts := make(map[string]int)
	if n, err := s.SyncGmail(ctx, userID); err == nil {
		counts[models.IntegrationGmail] = n
	}
	if n, err := s.SyncCalendar(ctx, userID); err == nil {
		counts[models.IntegrationCalendar] = n
	}
	if n, err := s.SyncNotion(ctx, userID); err == nil {
		counts[models.IntegrationNotion] = n
	}
	return counts
}

func (s *SyncService) markSynced(ctx context.Context, userID, integrationType, provider string, start time.Time) {
	if err := s.integrations.MarkSynced(ctx, userID, integrationType, time.Now()); err != nil {
		log.Printf("⚠️  [SYNC] Failed to update integration state: %v", err)
	}
	if m := GetMetrics(); m != nil {
		m.SyncRuns.WithLabelValues(provider, "success").Inc()
		m.SyncDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	}
}

func (s *SyncService) markFailed(ctx context.Context, userID, integrationType, provider string) {
	if err := s.integrations.MarkDisconnected(ctx, userID, integrationType); err != nil {
		log.Printf("⚠️  [SYNC] Failed to update integration state: %v", err)
	}
	if m := GetMetrics(); m != nil {
		m.SyncRuns.WithLabelValues(provider, "error").Inc()
	}
}
