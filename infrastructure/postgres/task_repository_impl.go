package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-api/domain/models"
	"todo-api/domain/repositories"
)

const (
	orderByID       = "id ASC"
	orderByDueDate  = "due_date ASC, id ASC"
	orderByPriority = "priority ASC, id ASC"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TaskRepositoryImpl struct {
	db *gorm.DB
	// forUpdate ใช้ภายใน WithTx: FindByID จะ lock แถว
	forUpdate bool
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Save(ctx context.Context, task *models.Task) error {
	if task.ID == 0 {
		return translateError("create task", r.db.WithContext(ctx).Create(task).Error)
	}

	// เขียนทับทุก field ยกเว้น owner และ created_at
	result := r.db.WithContext(ctx).
		Model(task).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(task)
	if result.Error != nil {
		return translateError("update task", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update task %d: %w", task.ID, repositories.ErrNotFound)
	}
	return nil
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var task models.Task
	if err := q.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError("get task by id", err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Where("id = ?", task.ID).Delete(&models.Task{})
	if result.Error != nil {
		return translateError("delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete task %d: %w", task.ID, repositories.ErrNotFound)
	}
	return nil
}

func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.paginate(r.owned(ctx, ownerID), orderByID, page)
}

func (r *TaskRepositoryImpl) SearchByKeyword(ctx context.Context, ownerID int64, keyword string, page models.PageRequest) (models.Page[*models.Task], error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	q := r.owned(ctx, ownerID).Where(
		`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
		pattern, pattern,
	)
	return r.paginate(q, orderByID, page)
}

func (r *TaskRepositoryImpl) ListSortedByDueDate(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.paginate(r.owned(ctx, ownerID), orderByDueDate, page)
}

func (r *TaskRepositoryImpl) ListSortedByPriority(ctx context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.paginate(r.owned(ctx, ownerID), orderByPriority, page)
}

func (r *TaskRepositoryImpl) ListByCompletion(ctx context.Context, ownerID int64, completed bool, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.paginate(r.owned(ctx, ownerID).Where("completed = ?", completed), orderByID, page)
}

func (r *TaskRepositoryImpl) ListByDueDate(ctx context.Context, ownerID int64, dueDate time.Time, page models.PageRequest) (models.Page[*models.Task], error) {
	day := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	return r.paginate(r.owned(ctx, ownerID).Where("due_date = ?", day), orderByID, page)
}

func (r *TaskRepositoryImpl) WithTx(ctx context.Context, fn func(tx repositories.TaskRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TaskRepositoryImpl{db: tx, forUpdate: true})
	})
}

func (r *TaskRepositoryImpl) owned(ctx context.Context, ownerID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", ownerID)
}

func (r *TaskRepositoryImpl) paginate(q *gorm.DB, order string, page models.PageRequest) (models.Page[*models.Task], error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return models.Page[*models.Task]{}, translateError("count tasks", err)
	}

	var tasks []*models.Task
	err := q.Order(order).Offset(page.Offset()).Limit(page.Size).Find(&tasks).Error
	if err != nil {
		return models.Page[*models.Task]{}, translateError("list tasks", err)
	}
	return models.NewPage(tasks, total, page), nil
}
