package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/domain/models"
	"todo-api/domain/services"
	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type TodoHandler struct {
	taskService services.TaskService
}

func NewTodoHandler(taskService services.TaskService) *TodoHandler {
	return &TodoHandler{
		taskService: taskService,
	}
}

// CreateTodo POST /api/todos
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.TodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Create(ctx, &req, user.ID)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Todo created", "todo_id", task.ID, "user_id", user.ID)
	return utils.CreatedResponse(c, dto.TaskToTodoResponse(task))
}

// GetTodo GET /api/todos/:todoId
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := todoIDParam(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, dto.TaskToTodoResponse(task))
}

// ListTodos GET /api/todos/all?pageNo&pageSize&sortBy
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	sortBy := c.Query("sortBy")
	logger.DebugContext(c.UserContext(), "List todos", "user_id", user.ID, "page_no", page.Index, "page_size", page.Size, "sort_by", sortBy)

	var result models.Page[*models.Task]
	if sortBy == "" {
		result, err = h.taskService.ListForOwner(c.UserContext(), user.ID, page)
	} else {
		result, err = h.taskService.SortedBy(c.UserContext(), user.ID, sortBy, page)
	}
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, dto.TaskPageToResponse(result))
}

// SearchTodos GET /api/todos/search?keyword
func (h *TodoHandler) SearchTodos(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if !hasQuery(c, "keyword") {
		return apperror.Validation("Validation failed", []string{"keyword: keyword is required"})
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.Search(c.UserContext(), user.ID, c.Query("keyword"), page)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, dto.TaskPageToResponse(result))
}

// TodosByStatus GET /api/todos/status?status=true|false
func (h *TodoHandler) TodosByStatus(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	raw, err := requiredQuery(c, "status")
	if err != nil {
		return err
	}
	completed, perr := strconv.ParseBool(raw)
	if perr != nil {
		return apperror.Validation("Validation failed", []string{"status: must be true or false"})
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.ByCompletion(c.UserContext(), user.ID, completed, page)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, dto.TaskPageToResponse(result))
}

// TodosByDueDate GET /api/todos/due-date?dueDate=yyyy-MM-dd
func (h *TodoHandler) TodosByDueDate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	raw, err := requiredQuery(c, "dueDate")
	if err != nil {
		return err
	}
	dueDate, err := parseDate("dueDate", raw)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.taskService.ByDueDate(c.UserContext(), user.ID, dueDate, page)
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, dto.TaskPageToResponse(result))
}

// UpdateTodo PUT /api/todos/:todoId
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := todoIDParam(c)
	if err != nil {
		return err
	}

	var req dto.TodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Update(ctx, id, &req, user.ID)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Todo updated", "todo_id", task.ID, "user_id", user.ID)
	return utils.SuccessResponse(c, dto.TaskToTodoResponse(task))
}

// DeleteTodo DELETE /api/todos/:todoId
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := todoIDParam(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.UserContext(), id, user.ID); err != nil {
		return err
	}
	return utils.NoContentResponse(c)
}
