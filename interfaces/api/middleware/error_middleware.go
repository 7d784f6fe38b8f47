package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"todo-api/pkg/apperror"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

const genericErrorMessage = "An unknown error occurred."

// ErrorHandler is the app-wide fiber.ErrorHandler. Every error leaves the API as {status, message, errors?}.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		ctx := c.UserContext()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Code, fe.Message, nil)
		}

		appErr, ok := apperror.As(err)
		if !ok {
			appErr = apperror.Service("unhandled error", err)
		}

		status := StatusFor(appErr.Kind)
		message := appErr.Message
		if appErr.Kind == apperror.KindService {
			// รายละเอียดอยู่ใน log เท่านั้น
			logger.ErrorContext(ctx, "Request failed", "path", c.Path(), "error", err)
			message = genericErrorMessage
		} else {
			logger.DebugContext(ctx, "Request rejected", "path", c.Path(), "kind", appErr.Kind.String(), "message", appErr.Message)
		}

		return utils.ErrorResponse(c, status, message, appErr.Fields)
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindAlreadyExists:
		return fiber.StatusConflict
	case apperror.KindInvalidCredentials:
		return fiber.StatusUnauthorized
	case apperror.KindIllegalAction, apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindTokenExpired, apperror.KindTokenInvalid:
		return fiber.StatusForbidden
	case apperror.KindRateLimited:
		return fiber.StatusTooManyRequests
	case apperror.KindService:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
