package services

import (
	"context"
	"time"

	"todo-api/domain/dto"
	"todo-api/domain/models"
)

// TaskService takes the caller's user id on every call and never returns
// or mutates another owner's task.
type TaskService interface {
	Create(ctx context.Context, req *dto.TodoRequest, ownerID int64) (*models.Task, error)
	Get(ctx context.Context, taskID, ownerID int64) (*models.Task, error)
	ListForOwner(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error)
	Search(ctx context.Context, ownerID int64, keyword string, page models.PageRequest) (models.Page[*models.Task], error)
	// SortedBy accepts "dueDate" or "priority" in any case; anything else lists unsorted.
	SortedBy(ctx context.Context, ownerID int64, sortBy string, page models.PageRequest) (models.Page[*models.Task], error)
	ByCompletion(ctx context.Context, ownerID int64, completed bool, page models.PageRequest) (models.Page[*models.Task], error)
	ByDueDate(ctx context.Context, ownerID int64, dueDate time.Time, page models.PageRequest) (models.Page[*models.Task], error)
	Update(ctx context.Context, taskID int64, req *dto.TodoRequest, ownerID int64) (*models.Task, error)
	Delete(ctx context.Context, taskID, ownerID int64) error
}
