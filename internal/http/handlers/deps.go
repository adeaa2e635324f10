package handlers

import (
	"github.com/jmoiron/sqlx"

	"lapak/internal/config"
	"lapak/internal/notify"
	"lapak/internal/repos"
	"lapak/internal/services"
)

type Deps struct {
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	ReviewHandler    *ReviewHandler
	DashboardHandler *DashboardHandler

	Auth      *services.AuthService
	Analytics *services.AnalyticsService
	Users     *repos.UserRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config, notifier notify.Notifier) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	statsRepo := repos.NewStatsRepo(db)

	authSvc := services.NewAuthService(userRepo, notifier)
	catalogSvc := services.NewCatalogService(prodRepo, userRepo, notifier, cfg.LowStockThreshold)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	checkoutSvc := services.NewCheckoutService(db, userRepo, cartRepo, prodRepo, orderRepo, notifier, cfg.LowStockThreshold)
	orderSvc := services.NewOrderService(db, orderRepo, prodRepo, userRepo, notifier)
	reviewSvc := services.NewReviewService(db, reviewRepo, prodRepo)
	analyticsSvc := services.NewAnalyticsService(statsRepo)

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: authSvc, Cfg: cfg},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Checkout: checkoutSvc, Orders: orderSvc},
		ReviewHandler:    &ReviewHandler{Reviews: reviewSvc},
		DashboardHandler: &DashboardHandler{Analytics: analyticsSvc},

		Auth:      authSvc,
		Analytics: analyticsSvc,
		Users:     userRepo,
	}
}
