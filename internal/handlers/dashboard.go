package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"aura/internal/services"
)

// DashboardHandler serves the mirror tables to the dashboard
type DashboardHandler struct {
	emails     *services.EmailService
	calendar   *services.CalendarService
	tasks      *services.TaskService
	voiceNotes *services.VoiceNoteService
	activities *services.ActivityService
	history    *services.HistoryService
}

// NewDashboardHandler creates a dashboard read handler
func NewDashboardHandler(
	emails *services.EmailService,
	calendar *services.CalendarService,
	tasks *services.TaskService,
	voiceNotes *services.VoiceNoteService,
	activities *services.ActivityService,
	history *services.HistoryService,
) *DashboardHandler {
	return &DashboardHandler{
		emails:     emails,
		calendar:   calendar,
		tasks:      tasks,
		voiceNotes: voiceNotes,
		activities: activities,
		history:    history,
	}
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 50)
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Emails lists mirrored emails
// GET /api/emails
func (h *DashboardHandler) Emails(c *fiber.Ctx) error {
	return h.respond(c, "emails", func(userID string, limit, offset int) (interface{}, error) {
		return h.emails.ListByUser(c.Context(), userID, limit, offset)
	})
}

// Events lists mirrored calendar events
// GET /api/events
func (h *DashboardHandler) Events(c *fiber.Ctx) error {
	return h.respond(c, "events", func(userID string, limit, offset int) (interface{}, error) {
		return h.calendar.ListByUser(c.Context(), userID, limit, offset)
	})
}

// Tasks lists mirrored tasks
// GET /api/tasks
func (h *DashboardHandler) Tasks(c *fiber.Ctx) error {
	return h.respond(c, "tasks", func(userID string, limit, offset int) (interface{}, error) {
		return h.tasks.ListByUser(c.Context(), userID, limit, offset)
	})
}

// VoiceNotes lists stored voice notes
// GET /api/voice-notes
func (h *DashboardHandler) VoiceNotes(c *fiber.Ctx) error {
	return h.respond(c, "voice_notes", func(userID string, limit, offset int) (interface{}, error) {
		return h.voiceNotes.ListByUser(c.Context(), userID, limit, offset)
	})
}

// Activities lists agent activity entries
// GET /api/activities
func (h *DashboardHandler) Activities(c *fiber.Ctx) error {
	return h.respond(c, "activities", func(userID string, limit, offset int) (interface{}, error) {
		return h.activities.ListByUser(c.Context(), userID, limit, offset)
	})
}

// Commands lists command history
// GET /api/commands
func (h *DashboardHandler) Commands(c *fiber.Ctx) error {
	return h.respond(c, "commands", func(userID string, limit, offset int) (interface{}, error) {
		return h.history.ListByUser(c.Context(), userID, limit, offset)
	})
}

func (h *DashboardHandler) respond(c *fiber.Ctx, key string, list func(userID string, limit, offset int) (interface{}, error)) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	limit, offset := pagination(c)
	items, err := list(userID, limit, offset)
	if err != nil {
		log.Printf("❌ Failed to list %s: %v", key, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load " + key,
		})
	}

	return c.JSON(fiber.Map{key: items})
}
