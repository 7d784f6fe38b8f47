package routes

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/middleware"
)

func SetupTodoRoutes(app fiber.Router, h *handlers.Handlers, deps Deps) {
	todos := app.Group("/api/todos")
	todos.Use(middleware.Protected(deps.Tokens))

	todos.Post("/", h.TodoHandler.CreateTodo)
	// path คงที่ต้องมาก่อน /:todoId
	todos.Get("/all", h.TodoHandler.ListTodos)
	todos.Get("/search", h.TodoHandler.SearchTodos)
	todos.Get("/status", h.TodoHandler.TodosByStatus)
	todos.Get("/due-date", h.TodoHandler.TodosByDueDate)
	todos.Get("/:todoId", h.TodoHandler.GetTodo)
	todos.Put("/:todoId", h.TodoHandler.UpdateTodo)
	todos.Delete("/:todoId", h.TodoHandler.DeleteTodo)
}
