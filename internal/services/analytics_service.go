package services

import (
	"time"

	"lapak/internal/domain"
	"lapak/internal/repos"
)

// AnalyticsService is a read-only rollup over order history for a
// seller's dashboard. Revenue excludes cancelled orders.
type AnalyticsService struct {
	Stats *repos.StatsRepo

	// now is swappable for tests.
	now func() time.Time
}

func NewAnalyticsService(stats *repos.StatsRepo) *AnalyticsService {
	return &AnalyticsService{Stats: stats, now: time.Now}
}

type SellerStats struct {
	RevenueAllTime   int64 `json:"revenueAllTime"`
	RevenueToday     int64 `json:"revenueToday"`
	RevenueThisWeek  int64 `json:"revenueThisWeek"`
	RevenueThisMonth int64 `json:"revenueThisMonth"`

	TotalOrders     int `json:"totalOrders"`
	OrdersToday     int `json:"ordersToday"`
	OrdersThisWeek  int `json:"ordersThisWeek"`
	OrdersThisMonth int `json:"ordersThisMonth"`

	TopProducts     []repos.ProductSales       `json:"topProducts"`
	StatusBreakdown map[domain.OrderStatus]int `json:"statusBreakdown"`
}

func (s *AnalyticsService) SellerStats(sellerID string) (SellerStats, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// week starts on Sunday
	startOfWeek := startOfDay.AddDate(0, 0, -int(startOfDay.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		out SellerStats
		err error
	)

	windows := []struct {
		since   time.Time
		revenue *int64
		orders  *int
	}{
		{time.Time{}, &out.RevenueAllTime, &out.TotalOrders},
		{startOfDay, &out.RevenueToday, &out.OrdersToday},
		{startOfWeek, &out.RevenueThisWeek, &out.OrdersThisWeek},
		{startOfMonth, &out.RevenueThisMonth, &out.OrdersThisMonth},
	}
	for _, w := range windows {
		if *w.revenue, err = s.Stats.Revenue(sellerID, w.since); err != nil {
			return SellerStats{}, err
		}
		if *w.orders, err = s.Stats.OrderCount(sellerID, w.since); err != nil {
			return SellerStats{}, err
		}
	}

	if out.TopProducts, err = s.Stats.TopProducts(sellerID, 5); err != nil {
		return SellerStats{}, err
	}
	if out.StatusBreakdown, err = s.Stats.StatusBreakdown(sellerID); err != nil {
		return SellerStats{}, err
	}
	return out, nil
}

// WeeklySummary is the input for the weekly report email.
type WeeklySummary struct {
	Revenue int64
	Orders  int
}

func (s *AnalyticsService) LastWeek(sellerID string) (WeeklySummary, error) {
	since := s.now().UTC().AddDate(0, 0, -7)
	revenue, err := s.Stats.Revenue(sellerID, since)
	if err != nil {
		return WeeklySummary{}, err
	}
	orders, err := s.Stats.OrderCount(sellerID, since)
	if err != nil {
		return WeeklySummary{}, err
	}
	return WeeklySummary{Revenue: revenue, Orders: orders}, nil
}
