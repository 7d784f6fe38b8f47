package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-api/domain/models"
	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// bindAndValidate parses the JSON body into req and runs its validate tags.
func bindAndValidate(c *fiber.Ctx, req any) error {
	ctx := c.UserContext()

	if err := c.BodyParser(req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return apperror.Validation("Malformed request body", nil)
	}

	if err := utils.ValidateStruct(req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return apperror.Validation("Validation failed", errors)
	}
	return nil
}

func currentUser(c *fiber.Ctx) (*utils.UserContext, error) {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(c.UserContext(), "Unauthorized access attempt")
		return nil, apperror.TokenInvalid("")
	}
	return user, nil
}

// pageRequest reads pageNo (default 0) and pageSize (default 10, max 100).
func pageRequest(c *fiber.Ctx) (models.PageRequest, error) {
	var fields []string

	pageNo, err := queryInt(c, "pageNo", 0)
	if err != nil {
		fields = append(fields, err.Error())
	} else if pageNo < 0 {
		fields = append(fields, "pageNo: must be at least 0")
	}

	pageSize, err := queryInt(c, "pageSize", defaultPageSize)
	if err != nil {
		fields = append(fields, err.Error())
	} else if pageSize < 1 || pageSize > maxPageSize {
		fields = append(fields, fmt.Sprintf("pageSize: must be between 1 and %d", maxPageSize))
	}

	// offset = pageNo*pageSize ต้องไม่ overflow
	if fields == nil && pageNo > models.MaxPageIndex(pageSize) {
		fields = append(fields, fmt.Sprintf("pageNo: must be at most %d", models.MaxPageIndex(pageSize)))
	}

	if fields != nil {
		return models.PageRequest{}, apperror.Validation("Validation failed", fields)
	}
	return models.PageRequest{Index: pageNo, Size: pageSize}, nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: must be an integer", name)
	}
	return n, nil
}

func hasQuery(c *fiber.Ctx, name string) bool {
	return c.Context().QueryArgs().Has(name)
}

func requiredQuery(c *fiber.Ctx, name string) (string, error) {
	raw := c.Query(name)
	if raw == "" {
		return "", apperror.Validation("Validation failed", []string{name + ": " + name + " is required"})
	}
	return raw, nil
}

func parseDate(name, raw string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.Validation("Validation failed", []string{name + ": must be a date in yyyy-MM-dd format"})
	}
	return d, nil
}

func todoIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("todoId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("Validation failed", []string{"todoId: must be a positive integer"})
	}
	return id, nil
}
