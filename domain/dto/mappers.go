package dto

import (
	"time"

	"todo-api/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

func RegisterRequestToUser(req *RegisterRequest, passwordHash string) *models.User {
	return &models.User{
		Email:     req.Email,
		Password:  passwordHash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

func TaskToTodoResponse(task *models.Task) *TodoResponse {
	if task == nil {
		return nil
	}
	return &TodoResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate.Format(models.DateLayout),
		Priority:    task.Priority,
		Completed:   task.Completed,
	}
}

// ApplyTodoRequest copies every mutable field from req onto task. The owner is never touched.
func ApplyTodoRequest(task *models.Task, req *TodoRequest, dueDate time.Time) {
	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = dueDate
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	task.Completed = req.Completed
}

func TaskPageToResponse(page models.Page[*models.Task]) PageResponse[TodoResponse] {
	items := make([]TodoResponse, 0, len(page.Items))
	for _, task := range page.Items {
		items = append(items, *TaskToTodoResponse(task))
	}
	return PageResponse[TodoResponse]{
		Items:         items,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
		PageIndex:     page.PageIndex,
		PageSize:      page.PageSize,
	}
}
