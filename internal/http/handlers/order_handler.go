package handlers

import (
	"github.com/gofiber/fiber/v2"

	"lapak/internal/domain"
	applog "lapak/internal/log"
	"lapak/internal/services"
)

type OrderHandler struct {
	Checkout *services.CheckoutService
	Orders   *services.OrderService
}

type placeOrderReq struct {
	ShippingAddress string   `json:"shippingAddress"`
	PaymentMethod   string   `json:"paymentMethod"`
	CartItemIDs     []string `json:"cartItemIds"`
	ShippingCost    int64    `json:"shippingCost"`
}

// Place is the checkout endpoint; the response is always a list, one
// order per seller, even for single-seller carts.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	orders, err := h.Checkout.Place(currentUser(c).ID, req.ShippingAddress,
		req.PaymentMethod, req.CartItemIDs, req.ShippingCost)
	if err != nil {
		return fail(c, "orders.place", err)
	}

	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		numbers = append(numbers, o.OrderNumber)
	}
	applog.Audit(c, "orders.place", map[string]any{"orders": numbers})
	return c.Status(fiber.StatusCreated).JSON(orders)
}

func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	page, err := h.Orders.MyOrders(currentUser(c).ID, c.Query("status"),
		c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return fail(c, "orders.my", err)
	}
	return c.JSON(page)
}

func (h *OrderHandler) Manage(c *fiber.Ctx) error {
	out, err := h.Orders.SellerOrders(currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.manage", err)
	}
	return c.JSON(out)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	out, err := h.Orders.UpdateStatus(c.Params("id"), domain.OrderStatus(req.Status), currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.status", err)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": out.ID, "status": out.Status})
	return c.JSON(out)
}

func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.Orders.Cancel(c.Params("id"), currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.cancel", err)
	}
	applog.Audit(c, "orders.cancel", map[string]any{"order_id": out.ID})
	return c.JSON(out)
}

func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	out, err := h.Orders.Receive(c.Params("id"), currentUser(c).ID)
	if err != nil {
		return fail(c, "orders.receive", err)
	}
	applog.Audit(c, "orders.receive", map[string]any{"order_id": out.ID})
	return c.JSON(out)
}
