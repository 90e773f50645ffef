package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// APIResponse is the envelope every successful response is wrapped in.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Code       string   `json:"code,omitempty"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

// Respond writes data inside the success envelope.
func Respond(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < fiber.StatusBadRequest,
	})
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{
		StatusCode: status,
		Errors:     []string{},
		Success:    false,
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response.Message = appErr.Message
		response.Code = appErr.Code
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Errors = append(response.Errors, appErr.Err.Error())
		}
	} else {
		response.Message = err.Error()
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError picks the status from the error itself. Errors that
// are not an AppError are reported as internal so their text never leaks.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		err = NewInternalError(err)
	}
	return RespondWithError(c, StatusFor(err), err)
}
