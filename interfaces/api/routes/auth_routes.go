package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/middleware"
)

func SetupAuthRoutes(app fiber.Router, h *handlers.Handlers, deps Deps) {
	auth := app.Group("/auth")

	auth.Post("/register", h.AuthHandler.Register)
	auth.Post("/login", middleware.LoginRateLimit(deps.LoginLimiter, deps.Metrics), h.AuthHandler.Login)

	auth.Get("/me", middleware.Protected(deps.Tokens), h.AuthHandler.Me)
}
