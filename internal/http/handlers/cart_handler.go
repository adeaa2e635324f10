package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapak/internal/domain"
	applog "lapak/internal/log"
	"lapak/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type addToCartReq struct {
	ProductID       string         `json:"productId"`
	Quantity        int            `json:"quantity"`
	SelectedVariant domain.Variant `json:"selectedVariant"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "productId is required"})
	}

	item, err := h.Cart.Add(currentUser(c).ID, req.ProductID, req.Quantity, req.SelectedVariant)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"item_id": item.ID, "quantity": item.Quantity})
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	view, err := h.Cart.List(currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(view)
}

type updateCartReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req updateCartReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	item, err := h.Cart.UpdateQuantity(c.Params("id"), req.Quantity, currentUser(c).ID)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(item)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	if err := h.Cart.Remove(c.Params("id"), currentUser(c).ID); err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
