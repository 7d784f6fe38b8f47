package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
)

const (
	SortByDueDate  = "dueDate"
	SortByPriority = "priority"
)

type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	publisher ports.TaskEventPublisher
	now       func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, publisher ports.TaskEventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TaskServiceImpl) Create(ctx context.Context, req *dto.TodoRequest, ownerID int64) (*models.Task, error) {
	dueDate, err := req.ParsedDueDate()
	if err != nil {
		return nil, apperror.Validation("Validation failed", []string{"dueDate: must be a date in yyyy-MM-dd format"})
	}

	task := &models.Task{UserID: ownerID}
	dto.ApplyTodoRequest(task, req, dueDate)
	// งานใหม่ยังไม่เสร็จเสมอ ไม่สนค่า completed ที่ส่งมา
	task.Completed = false

	if err := s.taskRepo.Save(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.WarnContext(ctx, "Task conflicts with an existing one", "user_id", ownerID)
			return nil, apperror.AlreadyExists("Todo already exists")
		}
		logger.ErrorContext(ctx, "Failed to create task", "user_id", ownerID, "error", err)
		return nil, apperror.Service("failed to create todo", err)
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "user_id", ownerID)
	s.publish(ctx, ports.TaskCreated, task)
	return task, nil
}

func (s *TaskServiceImpl) Get(ctx context.Context, taskID, ownerID int64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, s.lookupError(ctx, err, taskID)
	}
	if !task.OwnedBy(ownerID) {
		logger.WarnContext(ctx, "Task belongs to another user", "task_id", taskID, "user_id", ownerID)
		return nil, notFound(taskID)
	}
	return task, nil
}

func (s *TaskServiceImpl) ListForOwner(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return s.list(ctx, "list", page, func() (models.Page[*models.Task], error) {
		return s.taskRepo.ListByOwner(ctx, ownerID, page)
	})
}

func (s *TaskServiceImpl) Search(ctx context.Context, ownerID int64, keyword string, page models.PageRequest) (models.Page[*models.Task], error) {
	return s.list(ctx, "search", page, func() (models.Page[*models.Task], error) {
		return s.taskRepo.SearchByKeyword(ctx, ownerID, keyword, page)
	})
}

func (s *TaskServiceImpl) SortedBy(ctx context.Context, ownerID int64, sortBy string, page models.PageRequest) (models.Page[*models.Task], error) {
	return s.list(ctx, "sort", page, func() (models.Page[*models.Task], error) {
		switch {
		case strings.EqualFold(sortBy, SortByDueDate):
			return s.taskRepo.ListSortedByDueDate(ctx, ownerID, page)
		case strings.EqualFold(sortBy, SortByPriority):
			return s.taskRepo.ListSortedByPriority(ctx, ownerID, page)
		default:
			return s.taskRepo.ListByOwner(ctx, ownerID, page)
		}
	})
}

func (s *TaskServiceImpl) ByCompletion(ctx context.Context, ownerID int64, completed bool, page models.PageRequest) (models.Page[*models.Task], error) {
	return s.list(ctx, "filter by status", page, func() (models.Page[*models.Task], error) {
		return s.taskRepo.ListByCompletion(ctx, ownerID, completed, page)
	})
}

func (s *TaskServiceImpl) ByDueDate(ctx context.Context, ownerID int64, dueDate time.Time, page models.PageRequest) (models.Page[*models.Task], error) {
	return s.list(ctx, "filter by due date", page, func() (models.Page[*models.Task], error) {
		return s.taskRepo.ListByDueDate(ctx, ownerID, dueDate, page)
	})
}

func (s *TaskServiceImpl) Update(ctx context.Context, taskID int64, req *dto.TodoRequest, ownerID int64) (*models.Task, error) {
	dueDate, err := req.ParsedDueDate()
	if err != nil {
		return nil, apperror.Validation("Validation failed", []string{"dueDate: must be a date in yyyy-MM-dd format"})
	}

	var updated *models.Task
	err = s.taskRepo.WithTx(ctx, func(tx repositories.TaskRepository) error {
		task, err := tx.FindByID(ctx, taskID)
		if err != nil {
			return s.lookupError(ctx, err, taskID)
		}
		if !task.OwnedBy(ownerID) {
			logger.WarnContext(ctx, "Update rejected - task belongs to another user", "task_id", taskID, "user_id", ownerID)
			return notFound(taskID)
		}

		dto.ApplyTodoRequest(task, req, dueDate)
		if err := tx.Save(ctx, task); err != nil {
			if errors.Is(err, repositories.ErrConflict) {
				return apperror.AlreadyExists("Todo already exists")
			}
			logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
			return apperror.Service("failed to update todo", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "failed to update todo")
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", taskID)
	s.publish(ctx, ports.TaskUpdated, updated)
	return updated, nil
}

func (s *TaskServiceImpl) Delete(ctx context.Context, taskID, ownerID int64) error {
	var deleted *models.Task
	err := s.taskRepo.WithTx(ctx, func(tx repositories.TaskRepository) error {
		task, err := tx.FindByID(ctx, taskID)
		if err != nil {
			return s.lookupError(ctx, err, taskID)
		}
		if !task.OwnedBy(ownerID) {
			logger.WarnContext(ctx, "Delete rejected - task belongs to another user", "task_id", taskID, "user_id", ownerID)
			return notFound(taskID)
		}

		if err := tx.Delete(ctx, task); err != nil {
			if errors.Is(err, repositories.ErrReferenced) {
				return apperror.IllegalAction("Cannot delete Todo as it is referenced elsewhere.")
			}
			logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
			return apperror.Service("failed to delete todo", err)
		}
		deleted = task
		return nil
	})
	if err != nil {
		return asAppError(err, "failed to delete todo")
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", taskID)
	s.publish(ctx, ports.TaskDeleted, deleted)
	return nil
}

func (s *TaskServiceImpl) list(ctx context.Context, op string, page models.PageRequest, query func() (models.Page[*models.Task], error)) (models.Page[*models.Task], error) {
	if err := validatePage(page); err != nil {
		return models.Page[*models.Task]{}, err
	}
	result, err := query()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to "+op+" tasks", "error", err)
		return models.Page[*models.Task]{}, apperror.Service("failed to "+op+" todos", err)
	}
	return result, nil
}

func (s *TaskServiceImpl) lookupError(ctx context.Context, err error, taskID int64) error {
	if errors.Is(err, repositories.ErrNotFound) {
		logger.WarnContext(ctx, "Task not found", "task_id", taskID)
		return notFound(taskID)
	}
	logger.ErrorContext(ctx, "Failed to load task", "task_id", taskID, "error", err)
	return apperror.Service("failed to load todo", err)
}

// publish ไม่ทำให้ request fail ถ้าส่ง event ไม่สำเร็จ
func (s *TaskServiceImpl) publish(ctx context.Context, typ ports.TaskEventType, task *models.Task) {
	if s.publisher == nil || task == nil {
		return
	}
	event := ports.TaskEvent{
		Type:       typ,
		TaskID:     task.ID,
		OwnerID:    task.UserID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "type", typ, "task_id", task.ID, "error", err)
	}
}

func validatePage(page models.PageRequest) error {
	var fields []string
	if page.Index < 0 {
		fields = append(fields, "pageNo: must be at least 0")
	}
	if page.Size <= 0 {
		fields = append(fields, "pageSize: must be at least 1")
	} else if page.Index > models.MaxPageIndex(page.Size) {
		fields = append(fields, fmt.Sprintf("pageNo: must be at most %d", models.MaxPageIndex(page.Size)))
	}
	if fields != nil {
		return apperror.Validation("Validation failed", fields)
	}
	return nil
}

func notFound(taskID int64) *apperror.Error {
	return apperror.NotFound(fmt.Sprintf("Todo not found with ID: %d", taskID))
}

// asAppError keeps errors raised inside a transaction callback and wraps commit failures.
func asAppError(err error, message string) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Service(message, err)
}
