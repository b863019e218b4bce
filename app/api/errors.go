package api

import (
	"errors"
	"log/slog"

	"faq/types"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiError Error
	if errors.As(err, &apiError) {
		return c.Status(apiError.Code).JSON(apiError)
	}
	var valError types.ValidationError
	if errors.As(err, &valError) {
		return c.Status(valError.Status).JSON(valError)
	}

	apiError = NewError(statusOf(err), err.Error())
	slog.Error("request failed", "path", c.Path(), "code", apiError.Code, "error", apiError.Message)
	return c.Status(apiError.Code).JSON(apiError)
}

func statusOf(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, types.ErrEmbeddingService), errors.Is(err, types.ErrGenerationService):
		return fiber.StatusBadGateway
	case errors.Is(err, types.ErrIndexUnavailable),
		errors.Is(err, types.ErrModelMismatch),
		errors.Is(err, types.ErrSourceUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the Error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrForbidden(msg string) Error {
	return Error{
		Code:    fiber.StatusForbidden,
		Message: msg,
	}
}

func ErrUnAuthorized(msg string) Error {
	return Error{
		Code:    fiber.StatusUnauthorized,
		Message: msg,
	}
}
