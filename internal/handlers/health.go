package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"aura/internal/database"
	"aura/internal/services"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db      *database.DB
	mongoDB *database.MongoDB
	redis   *services.RedisService
	started time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *database.DB, mongoDB *database.MongoDB, redis *services.RedisService) *HealthHandler {
	return &HealthHandler{
		db:      db,
		mongoDB: mongoDB,
		redis:   redis,
		started: time.Now(),
	}
}

// Health reports dependency status. Optional dependencies report as
// "disabled" rather than failing the check.
// GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := fiber.StatusOK
	checks := fiber.Map{}

	if err := h.db.PingContext(ctx); err != nil {
		checks["mysql"] = "down"
		status = fiber.StatusServiceUnavailable
	} else {
		checks["mysql"] = "ok"
	}

	if h.mongoDB == nil {
		checks["mongodb"] = "disabled"
	} else if err := h.mongoDB.Ping(ctx); err != nil {
		checks["mongodb"] = "down"
	} else {
		checks["mongodb"] = "ok"
	}

	if h.redis == nil {
		checks["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = "down"
	} else {
		checks["redis"] = "ok"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":         overall,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"checks":         checks,
	})
}
