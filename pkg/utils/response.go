package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the single error payload shape: {status, message, errors?}.
type ErrorBody struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func NoContentResponse(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, errors []string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Status:  statusCode,
		Message: message,
		Errors:  errors,
	})
}
