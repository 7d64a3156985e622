package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"aura/internal/models"
	"aura/internal/services"
)

// IntegrationHandler stores provider credentials and reports connection state
type IntegrationHandler struct {
	credentials  *services.CredentialService
	integrations *services.IntegrationService
	tokens       *services.TokenService
}

// NewIntegrationHandler creates an integration handler. credentials may be
// nil when no credential vault is configured; storing then returns 503.
func NewIntegrationHandler(credentials *services.CredentialService, integrations *services.IntegrationService, tokens *services.TokenService) *IntegrationHandler {
	return &IntegrationHandler{
		credentials:  credentials,
		integrations: integrations,
		tokens:       tokens,
	}
}

// ConnectGoogle stores the caller's Google OAuth tokens
// POST /api/integrations/google
func (h *IntegrationHandler) ConnectGoogle(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	if h.credentials == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Credential storage is not configured",
		})
	}

	var req models.GoogleCredentialRequest
	if err := c.BodyParser(&req); err != nil || req.AccessToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "access_token is required",
		})
	}

	expiresIn := req.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	cred := models.GoogleCredential{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(expiresIn) * time.Second),
	}

	if err := h.credentials.Store(c.Context(), userID, models.ProviderGoogle, &cred); err != nil {
		log.Printf("❌ Failed to store google credential: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store credential",
		})
	}

	// Drop any stale cached token so the new credential takes effect now
	if h.tokens != nil {
		h.tokens.Invalidate(c.Context(), userID)
	}

	for _, integration := range []string{models.IntegrationGmail, models.IntegrationCalendar} {
		if err := h.integrations.MarkConnected(c.Context(), userID, integration); err != nil {
			log.Printf("⚠️  Failed to mark %s connected: %v", integration, err)
		}
	}

	return c.JSON(fiber.Map{"connected": true})
}

// ConnectNotion stores the caller's Notion token and database
// POST /api/integrations/notion
func (h *IntegrationHandler) ConnectNotion(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}
	if h.credentials == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Credential storage is not configured",
		})
	}

	var req models.NotionCredentialRequest
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.DatabaseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "token and database_id are required",
		})
	}

	cred := models.NotionCredential{Token: req.Token, DatabaseID: req.DatabaseID}
	if err := h.credentials.Store(c.Context(), userID, models.ProviderNotion, &cred); err != nil {
		log.Printf("❌ Failed to store notion credential: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store credential",
		})
	}

	if err := h.integrations.MarkConnected(c.Context(), userID, models.IntegrationNotion); err != nil {
		log.Printf("⚠️  Failed to mark notion connected: %v", err)
	}

	return c.JSON(fiber.Map{"connected": true})
}

// List reports connection and sync state per provider
// GET /api/integrations
func (h *IntegrationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	integrations, err := h.integrations.ListByUser(c.Context(), userID)
	if err != nil {
		log.Printf("❌ Failed to list integrations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load integrations",
		})
	}

	return c.JSON(fiber.Map{"integrations": integrations})
}
