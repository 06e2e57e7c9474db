package utils

import (
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/gofiber/fiber/v2"
)

// SuccessResponse sends data with the given status
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return ValidationErrorResponse(c, message, status, errorType, nil)
}

// ValidationErrorResponse sends the error envelope with the fields that failed
func ValidationErrorResponse(c *fiber.Ctx, message string, status int, errorType string, fields []types.FieldError) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    false,
		Message:   message,
		Errors:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "not_found")
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    bool               `json:"status"`
	Message   string             `json:"message"`
	Errors    []types.FieldError `json:"errors,omitempty"`
	Timestamp string             `json:"timestamp"`
	URL       string             `json:"url"`
	Type      string             `json:"type,omitempty"`
}
