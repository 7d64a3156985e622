package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"aura/internal/services"
)

// SyncHandler handles manual sync triggers
type SyncHandler struct {
	sync *services.SyncService
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(sync *services.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Gmail mirrors the caller's recent mail
// POST /api/sync/gmail
func (h *SyncHandler) Gmail(c *fiber.Ctx) error {
	return h.run(c, "gmail", h.sync.SyncGmail)
}

// Calendar mirrors the caller's upcoming events
// POST /api/sync/calendar
func (h *SyncHandler) Calendar(c *fiber.Ctx) error {
	return h.run(c, "calendar", h.sync.SyncCalendar)
}

// Notion mirrors the caller's task database
// POST /api/sync/notion
func (h *SyncHandler) Notion(c *fiber.Ctx) error {
	return h.run(c, "notion", h.sync.SyncNotion)
}

func (h *SyncHandler) run(c *fiber.Ctx, provider string, syncFn func(context.Context, string) (int, error)) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	synced, err := syncFn(c.Context(), userID)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not connected") || strings.Contains(msg, "not configured") {
			return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
				"error": msg,
			})
		}
		log.Printf("❌ %s sync failed for user %s: %v", provider, userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Sync failed, try again later",
		})
	}

	return c.JSON(fiber.Map{
		"provider": provider,
		"synced":   synced,
	})
}
