package admin

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func NewAppError(code string, status int, msg string) *AppError {
	return &AppError{Code: code, Status: status, Message: msg}
}

func NotFoundError(entity, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  404,
		Message: fmt.Sprintf("%s with id %s not found", entity, id),
	}
}

func InvalidIDError(id string) *AppError {
	return &AppError{
		Code:    "INVALID_ID",
		Status:  400,
		Message: fmt.Sprintf("Invalid id: %s", id),
	}
}

func UnauthorizedError(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: 401, Message: msg}
}

func ForbiddenError(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: 403, Message: msg}
}

// ErrorHandler renders AppErrors with their status and everything else as a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error: &AppError{Code: "HTTP_ERROR", Status: fiberErr.Code, Message: fiberErr.Message},
		})
	}
	log.WithField("path", c.Path()).Errorf("unhandled error: %v", err)
	return c.Status(500).JSON(ErrorResponse{
		Error: &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error"},
	})
}
