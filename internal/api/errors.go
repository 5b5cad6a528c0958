package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/domain"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps the domain error taxonomy to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, codeForStatus(fe.Code)
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConstraintViolation):
		return fiber.StatusConflict, "constraint_violation"
	case errors.Is(err, domain.ErrAuthFailure):
		return fiber.StatusUnauthorized, "auth_failure"
	case errors.Is(err, domain.ErrSuggestionFailed):
		return fiber.StatusBadGateway, "suggestion_failed"
	case errors.Is(err, domain.ErrTransportFailure):
		return fiber.StatusServiceUnavailable, "backend_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal"
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "invalid_input"
	case fiber.StatusUnauthorized:
		return "auth_failure"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	case fiber.StatusServiceUnavailable:
		return "backend_unavailable"
	default:
		return "error"
	}
}

func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code := statusFor(err)
		msg := err.Error()
		if status == fiber.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			msg = "internal server error"
		}
		return c.Status(status).JSON(ErrorResponse{Error: code, Message: msg})
	}
}
