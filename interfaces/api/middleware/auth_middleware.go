package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

const accessDeniedMessage = "Access is denied. You do not have permission to access this resource."

// Protected middleware validates JWT tokens and sets user context
func Protected(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.TokenInvalid(accessDeniedMessage)
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return apperror.TokenInvalid(accessDeniedMessage)
		}

		userCtx, err := tokens.Validate(token)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			if errors.Is(err, utils.ErrExpiredToken) {
				return apperror.TokenExpired()
			}
			return apperror.TokenInvalid("")
		}

		utils.SetUserInContext(c, userCtx)
		return c.Next()
	}
}
