package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapak/internal/services"
)

type DashboardHandler struct {
	Analytics *services.AnalyticsService
}

func (h *DashboardHandler) SellerStats(c *fiber.Ctx) error {
	stats, err := h.Analytics.SellerStats(currentUser(c).ID)
	if err != nil {
		return fail(c, "dashboard.seller", err)
	}
	return c.JSON(stats)
}
