package handlers

import (
	"github.com/gofiber/fiber/v2"

	"todo-api/domain/dto"
	"todo-api/domain/services"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Registration attempt", "email", req.Email)

	user, err := h.authService.Register(ctx, &req)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, resp)
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.GetProfile(c.UserContext(), caller.ID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}
