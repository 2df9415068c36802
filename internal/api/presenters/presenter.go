package presenters

import (
	"github.com/gofiber/fiber/v2"

	"MedTrack-Backend/domain"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

// StatusCodeFor maps an error kind to a stable HTTP status, so callers
// never have to inspect message text.
func StatusCodeFor(err error) int {
	switch {
	case domain.IsNotFound(err):
		return fiber.StatusNotFound
	case domain.IsValidation(err):
		return fiber.StatusBadRequest
	case domain.IsBusinessRule(err):
		return fiber.StatusUnprocessableEntity
	case domain.IsGateway(err):
		return fiber.StatusBadGateway
	}
	return fiber.StatusBadRequest
}
