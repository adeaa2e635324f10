package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapak/internal/apperr"
	"lapak/internal/domain"
	applog "lapak/internal/log"
)

// fail maps a service error onto the wire: taxonomy errors keep their
// message verbatim (the UI shows it as-is), anything else becomes an
// opaque 500.
func fail(c *fiber.Ctx, action string, err error) error {
	status := apperr.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": "something went wrong"})
	}
	applog.Info(c, action+".reject", map[string]any{"error": err.Error()})
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// currentUser returns the user attached by the authz middleware.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
