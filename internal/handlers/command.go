package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"aura/internal/models"
	"aura/internal/services"
)

// CommandHandler handles command execution requests
type CommandHandler struct {
	commands *services.CommandService
}

// NewCommandHandler creates a command handler
func NewCommandHandler(commands *services.CommandService) *CommandHandler {
	return &CommandHandler{commands: commands}
}

// Process interprets and executes one command
// POST /api/command
func (h *CommandHandler) Process(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req models.CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.commands.Process(c.Context(), userID, &req)
	if err != nil {
		if err == services.ErrEmptyCommand {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Command text is required",
			})
		}
		log.Printf("❌ Command processing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process command",
		})
	}

	return c.JSON(response)
}
