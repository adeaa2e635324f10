package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapak/internal/config"
	"lapak/internal/domain"
	applog "lapak/internal/log"
	"lapak/internal/services"
)

func sessionUser(c *fiber.Ctx, auth *services.AuthService, cfg config.Config) *domain.User {
	sid := c.Cookies(cfg.SessionCookie)
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil {
		return nil
	}
	return u
}

// RequireUser rejects requests without a valid session.
func RequireUser(auth *services.AuthService, cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth, cfg)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireSeller additionally demands the SELLER role.
func RequireSeller(auth *services.AuthService, cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := sessionUser(c, auth, cfg)
		if u == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		if u.Role != domain.RoleSeller {
			applog.Security(c, "access.denied.seller", map[string]any{"user_id": u.ID})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "seller account required"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}
