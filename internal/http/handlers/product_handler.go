package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "lapak/internal/log"
	"lapak/internal/repos"
	"lapak/internal/services"
	"lapak/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ListFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		SellerID:     c.Query("sellerId"),
		MinPrice:     queryInt64(c, "minPrice", -1),
		MaxPrice:     queryInt64(c, "maxPrice", -1),
		Availability: c.Query("availability"),
		Sort:         c.Query("sort"),
		Limit:        c.QueryInt("limit", 10),
	}
	page := c.QueryInt("page", 1)

	out, err := h.Catalog.List(f, page)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(out)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "products.detail", err)
	}
	variants, err := p.Variants()
	if err != nil {
		return fail(c, "products.detail", err)
	}
	return c.JSON(fiber.Map{"product": p, "variants": variants})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.Catalog.Create(currentUser(c).ID, in)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in services.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.Catalog.Update(c.Params("id"), currentUser(c).ID, in)
	if err != nil {
		return fail(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.Catalog.Delete(c.Params("id"), currentUser(c).ID); err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": c.Params("id")})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ProductHandler) ListReviews(c *fiber.Ctx) error {
	out, err := h.Reviews.ListByProduct(c.Params("id"))
	if err != nil {
		return fail(c, "reviews.list", err)
	}
	return c.JSON(out)
}

func queryInt64(c *fiber.Ctx, key string, def int64) int64 {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
