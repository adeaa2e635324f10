package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapak/internal/config"
	applog "lapak/internal/log"
	"lapak/internal/services"
	"lapak/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
	Cfg  config.Config
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-60 characters"})
	}
	if !validate.Password(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be 8-64 characters with upper, lower and digit"})
	}

	u, err := h.Auth.Register(name, email, req.Password)
	if err != nil {
		return fail(c, "auth.register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	sid := c.Cookies(h.Cfg.SessionCookie)
	if sid == "" {
		sid = uuid.NewString()
	}
	u, err := h.Auth.Login(sid, req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(u)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(h.Cfg.SessionCookie); sid != "" {
		_ = h.Auth.Logout(sid)
	}
	c.ClearCookie(h.Cfg.SessionCookie)
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

type profileReq struct {
	Name          *string `json:"name"`
	StoreName     *string `json:"storeName"`
	StoreLocation *string `json:"storeLocation"`
	Password      *string `json:"password"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.Name != nil {
		name, ok := validate.Name(*req.Name)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-60 characters"})
		}
		req.Name = &name
	}
	if req.Password != nil && !validate.Password(*req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be 8-64 characters with upper, lower and digit"})
	}

	u, err := h.Auth.UpdateProfile(currentUser(c).ID, services.ProfileInput{
		Name:          req.Name,
		StoreName:     req.StoreName,
		StoreLocation: req.StoreLocation,
		Password:      req.Password,
	})
	if err != nil {
		return fail(c, "auth.profile", err)
	}
	applog.Audit(c, "auth.profile", map[string]any{"user_id": u.ID})
	return c.JSON(u)
}

type upgradeReq struct {
	StoreName     string `json:"storeName"`
	StoreLocation string `json:"storeLocation"`
}

func (h *AuthHandler) UpgradeSeller(c *fiber.Ctx) error {
	var req upgradeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	u, err := h.Auth.UpgradeToSeller(currentUser(c).ID, req.StoreName, req.StoreLocation)
	if err != nil {
		return fail(c, "auth.upgrade", err)
	}
	applog.Audit(c, "auth.upgrade", map[string]any{"user_id": u.ID})
	return c.JSON(u)
}
