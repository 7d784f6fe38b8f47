package handlers

import (
	"context"

	"todo-api/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	AuthService services.AuthService
	TaskService services.TaskService
	// DBPing ใช้ใน /health
	DBPing func(ctx context.Context) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler   *AuthHandler
	TodoHandler   *TodoHandler
	HealthHandler *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:   NewAuthHandler(services.AuthService),
		TodoHandler:   NewTodoHandler(services.TaskService),
		HealthHandler: NewHealthHandler(services.DBPing),
	}
}
