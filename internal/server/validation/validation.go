// Package validation decorates fiber handlers with request body parsing
// and struct validation.
package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DecorateWithBodyEx wraps a typed handler: the request body is parsed into
// T and validated before the handler runs. Parse and validation failures
// become 400 responses.
func DecorateWithBodyEx[T any](v *validator.Validate, h func(c *fiber.Ctx, req *T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req T
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := v.Struct(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return h(c, &req)
	}
}
