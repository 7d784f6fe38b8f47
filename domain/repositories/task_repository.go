package repositories

import (
	"context"
	"time"

	"todo-api/domain/models"
)

// TaskRepository stores tasks. Every listing is scoped to a single owner.
type TaskRepository interface {
	// Save inserts when task.ID is zero and fully updates otherwise.
	Save(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	Delete(ctx context.Context, task *models.Task) error

	ListByOwner(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error)
	SearchByKeyword(ctx context.Context, ownerID int64, keyword string, page models.PageRequest) (models.Page[*models.Task], error)
	ListSortedByDueDate(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error)
	ListSortedByPriority(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error)
	ListByCompletion(ctx context.Context, ownerID int64, completed bool, page models.PageRequest) (models.Page[*models.Task], error)
	ListByDueDate(ctx context.Context, ownerID int64, dueDate time.Time, page models.PageRequest) (models.Page[*models.Task], error)

	// WithTx runs fn inside one transaction. FindByID inside fn locks the row.
	WithTx(ctx context.Context, fn func(tx TaskRepository) error) error
}
