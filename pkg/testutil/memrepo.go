// Package testutil provides in-memory repositories for service and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"todo-api/domain/models"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
)

type UserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User

	// CreateErr is returned by the next Create call when set.
	CreateErr error
	// LookupErr is returned by GetByEmail/GetByID when set.
	LookupErr error
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int64]models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		err := r.CreateErr
		r.CreateErr = nil
		return err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", repositories.ErrConflict)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.LookupErr != nil {
		return nil, r.LookupErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, repositories.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.LookupErr != nil {
		return nil, r.LookupErr
	}
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, repositories.ErrNotFound)
}

type TaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]models.Task

	// SaveErr, DeleteErr and ListErr are returned by the matching calls when set.
	SaveErr   error
	DeleteErr error
	ListErr   error
	// Transactions counts WithTx calls.
	Transactions int
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{tasks: make(map[int64]models.Task)}
}

func (r *TaskRepo) Save(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(task)
}

func (r *TaskRepo) saveLocked(task *models.Task) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	now := time.Now()
	if task.ID == 0 {
		r.nextID++
		task.ID = r.nextID
		task.CreatedAt = now
	} else if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("task %d: %w", task.ID, repositories.ErrNotFound)
	}
	task.UpdatedAt = now
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findLocked(id)
}

func (r *TaskRepo) findLocked(id int64) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, repositories.ErrNotFound)
	}
	return &t, nil
}

func (r *TaskRepo) Delete(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteLocked(task)
}

func (r *TaskRepo) deleteLocked(task *models.Task) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	delete(r.tasks, task.ID)
	return nil
}

func (r *TaskRepo) ListByOwner(_ context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.query(ownerID, page, nil, byID)
}

func (r *TaskRepo) SearchByKeyword(_ context.Context, ownerID int64, keyword string, page models.PageRequest) (models.Page[*models.Task], error) {
	kw := strings.ToLower(keyword)
	return r.query(ownerID, page, func(t models.Task) bool {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		return strings.Contains(strings.ToLower(t.Title), kw) || strings.Contains(strings.ToLower(desc), kw)
	}, byID)
}

func (r *TaskRepo) ListSortedByDueDate(_ context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.query(ownerID, page, nil, func(a, b models.Task) bool {
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
}

func (r *TaskRepo) ListSortedByPriority(_ context.Context, ownerID int64, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.query(ownerID, page, nil, func(a, b models.Task) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
}

func (r *TaskRepo) ListByCompletion(_ context.Context, ownerID int64, completed bool, page models.PageRequest) (models.Page[*models.Task], error) {
	return r.query(ownerID, page, func(t models.Task) bool { return t.Completed == completed }, byID)
}

func (r *TaskRepo) ListByDueDate(_ context.Context, ownerID int64, dueDate time.Time, page models.PageRequest) (models.Page[*models.Task], error) {
	day := dueDate.Format(models.DateLayout)
	return r.query(ownerID, page, func(t models.Task) bool { return t.DueDate.Format(models.DateLayout) == day }, byID)
}

// WithTx holds the repository lock for the whole callback.
func (r *TaskRepo) WithTx(ctx context.Context, fn func(tx repositories.TaskRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Transactions++
	return fn(lockedTaskRepo{r})
}

// Len returns the number of stored tasks.
func (r *TaskRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func byID(a, b models.Task) bool { return a.ID < b.ID }

func (r *TaskRepo) query(ownerID int64, page models.PageRequest, match func(models.Task) bool, less func(a, b models.Task) bool) (models.Page[*models.Task], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListErr != nil {
		return models.Page[*models.Task]{}, r.ListErr
	}

	var all []models.Task
	for _, t := range r.tasks {
		if t.UserID != ownerID {
			continue
		}
		if match != nil && !match(t) {
			continue
		}
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })

	items := []*models.Task{}
	start := page.Offset()
	for i := start; i < len(all) && i < start+page.Size; i++ {
		t := all[i]
		items = append(items, &t)
	}
	return models.NewPage(items, int64(len(all)), page), nil
}

// lockedTaskRepo is the view handed to WithTx callbacks; the parent lock is already held.
type lockedTaskRepo struct {
	r *TaskRepo
}

func (l lockedTaskRepo) Save(_ context.Context, task *models.Task) error {
	return l.r.saveLocked(task)
}

func (l lockedTaskRepo) FindByID(_ context.Context, id int64) (*models.Task, error) {
	return l.r.findLocked(id)
}

func (l lockedTaskRepo) Delete(_ context.Context, task *models.Task) error {
	return l.r.deleteLocked(task)
}

func (l lockedTaskRepo) ListByOwner(context.Context, int64, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) SearchByKeyword(context.Context, int64, string, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) ListSortedByDueDate(context.Context, int64, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) ListSortedByPriority(context.Context, int64, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) ListByCompletion(context.Context, int64, bool, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) ListByDueDate(context.Context, int64, time.Time, models.PageRequest) (models.Page[*models.Task], error) {
	return models.Page[*models.Task]{}, errNestedQuery
}

func (l lockedTaskRepo) WithTx(_ context.Context, fn func(tx repositories.TaskRepository) error) error {
	return fn(l)
}

var errNestedQuery = errors.New("listing inside a transaction is not supported by the in-memory repository")

// RecordingPublisher collects published task events.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []ports.TaskEvent
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event ports.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []ports.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.TaskEvent(nil), p.events...)
}
