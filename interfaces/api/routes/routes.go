package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"todo-api/domain/ports"
	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/middleware"
	"todo-api/pkg/utils"
)

// Deps are the cross-cutting pieces routes need besides handlers.
type Deps struct {
	Tokens       *utils.TokenManager
	LoginLimiter ports.LoginLimiter // nil = ไม่จำกัด
	Metrics      *middleware.Metrics
	Gatherer     prometheus.Gatherer
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, deps Deps) {
	SetupHealthRoutes(app, h)
	SetupMetricsRoutes(app, deps.Gatherer)

	SetupAuthRoutes(app, h, deps)
	SetupTodoRoutes(app, h, deps)
}
