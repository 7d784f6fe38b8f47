package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/pkg/logger"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.ping == nil {
		return c.JSON(dto.HealthResponse{Status: "ok", Database: "unknown"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		logger.ErrorContext(ctx, "Health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Database: "down"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Database: "up"})
}
