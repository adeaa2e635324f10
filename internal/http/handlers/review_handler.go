package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "lapak/internal/log"
	"lapak/internal/services"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type createReviewReq struct {
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req createReviewReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	rev, err := h.Reviews.Create(currentUser(c).ID, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		return fail(c, "reviews.create", err)
	}
	applog.Audit(c, "reviews.create", map[string]any{"review_id": rev.ID, "product_id": rev.ProductID})
	return c.Status(fiber.StatusCreated).JSON(rev)
}
