package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/tokoku/internal/services"
)

// serviceError maps fulfillment service errors to HTTP errors. Unrecognized
// errors pass through and surface as internal server errors.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}
