package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"lapak/internal/config"
	"lapak/internal/http/handlers"
	applog "lapak/internal/log"
	"lapak/internal/notify"
	"lapak/internal/repos"
	"lapak/internal/tasks"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Email transport; without an SMTP host everything goes to the log.
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPHost != "" {
		m, err := notify.NewMailer(cfg)
		if err != nil {
			log.Printf("[warn] mailer disabled: %v", err)
		} else {
			notifier = m
		}
	}

	deps := handlers.NewDeps(db, cfg, notifier)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	customer := handlers.RequireUser(deps.Auth, cfg)
	seller := handlers.RequireSeller(deps.Auth, cfg)

	// Auth
	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/auth/logout", deps.AuthHandler.Logout)
	app.Get("/auth/me", customer, deps.AuthHandler.Me)
	app.Post("/auth/upgrade-seller", customer, deps.AuthHandler.UpgradeSeller)
	app.Patch("/auth/profile", customer, deps.AuthHandler.UpdateProfile)

	// Catalog
	app.Get("/products", deps.ProductHandler.List)
	app.Get("/products/:id", deps.ProductHandler.Detail)
	app.Get("/products/:id/reviews", deps.ProductHandler.ListReviews)
	app.Post("/products", seller, deps.ProductHandler.Create)
	app.Patch("/products/:id", seller, deps.ProductHandler.Update)
	app.Delete("/products/:id", seller, deps.ProductHandler.Delete)

	// Cart
	app.Post("/cart", customer, deps.CartHandler.Add)
	app.Get("/cart", customer, deps.CartHandler.View)
	app.Patch("/cart/:id", customer, deps.CartHandler.Update)
	app.Delete("/cart/:id", customer, deps.CartHandler.Remove)

	// Orders
	app.Post("/orders", customer, deps.OrderHandler.Place)
	app.Get("/orders/my-orders", customer, deps.OrderHandler.MyOrders)
	app.Get("/orders/manage", seller, deps.OrderHandler.Manage)
	app.Patch("/orders/:id/status", seller, deps.OrderHandler.UpdateStatus)
	app.Patch("/orders/:id/cancel", customer, deps.OrderHandler.Cancel)
	app.Patch("/orders/:id/receive", customer, deps.OrderHandler.Receive)

	// Reviews
	app.Post("/reviews", customer, deps.ReviewHandler.Create)

	// Seller dashboard
	app.Get("/dashboard/seller", seller, deps.DashboardHandler.SellerStats)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Weekly seller reports
	weekly := &tasks.WeeklyReporter{
		Users:     deps.Users,
		Analytics: deps.Analytics,
		Notifier:  notifier,
	}
	stop := make(chan struct{})
	defer close(stop)
	weekly.Start(7*24*time.Hour, stop)

	log.Fatal(app.Listen(":" + cfg.Port))
}
