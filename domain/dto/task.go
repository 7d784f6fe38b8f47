package dto

import (
	"time"

	"todo-api/domain/models"
)

// TodoRequest is the body of POST /api/todos and PUT /api/todos/{todoId}.
type TodoRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     string  `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Priority    *int    `json:"priority" validate:"required,min=1,max=10"`
	Completed   bool    `json:"completed"`
}

// ParsedDueDate returns the due date as a UTC calendar day. Call after validation.
func (r *TodoRequest) ParsedDueDate() (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, r.DueDate, time.UTC)
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"dueDate"`
	Priority    int     `json:"priority"`
	Completed   bool    `json:"completed"`
}
