package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"aura/internal/services"
)

// BillingHandler serves plan listings and checkout creation
type BillingHandler struct {
	billing *services.BillingService
}

// NewBillingHandler creates a billing handler
func NewBillingHandler(billing *services.BillingService) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// Plans lists the plan catalog
// GET /api/billing/plans
func (h *BillingHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": h.billing.Plans()})
}

// Checkout creates a hosted checkout session for a paid plan
// POST /api/billing/checkout
func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.PlanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "plan_id is required",
		})
	}

	session, err := h.billing.CreateCheckoutSession(c.Context(), userID, req.PlanID)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "invalid plan"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		case strings.Contains(msg, "free plan"):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		case strings.Contains(msg, "not configured"):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": msg})
		}
		log.Printf("❌ Checkout failed for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create checkout session",
		})
	}

	return c.JSON(session)
}
