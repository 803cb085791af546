package service

import (
	"context"
	"time"

	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/infrastructure/cache"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	"github.com/sangkips/invex-billing/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardCacheKey = "dashboard"
	dashboardDays     = 7
	dashboardTopN     = 5
)

// DashboardService provides sales analytics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	stats         cache.Cache[string, *DashboardStats]
	ttl           time.Duration
	now           func() time.Time
	log           *zap.Logger
	unsubscribe   func()
}

// NewDashboardService creates a new dashboard service. Cached stats are
// dropped on every bills or products event.
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	hub notify.Hub,
	ttl time.Duration,
	log *zap.Logger,
) *DashboardService {
	s := &DashboardService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		stats:         cache.NewTTLCache[string, *DashboardStats](),
		ttl:           ttl,
		now:           time.Now,
		log:           log.Named("dashboard"),
	}
	invalidate := func(notify.Event) { s.stats.Delete(dashboardCacheKey) }
	unsubBills := hub.Subscribe(notify.TopicBills, invalidate)
	unsubProducts := hub.Subscribe(notify.TopicProducts, invalidate)
	s.unsubscribe = func() {
		unsubBills()
		unsubProducts()
	}
	return s
}

// Close stops listening for changes
func (s *DashboardService) Close() {
	s.unsubscribe()
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalBills     int64             `json:"total_bills"`
	TotalProducts  int64             `json:"total_products"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	MonthlyRevenue decimal.Decimal   `json:"monthly_revenue"`
	AverageBill    decimal.Decimal   `json:"average_bill"`
	DailySalesData []DailySalesPoint `json:"daily_sales_data"`
	TopProducts    []TopProductPoint `json:"top_products"`
	TopClients     []TopClientPoint  `json:"top_clients"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date      string          `json:"date"`
	Revenue   decimal.Decimal `json:"revenue"`
	BillCount int             `json:"bill_count"`
}

// TopProductPoint is one entry of the best sellers list
type TopProductPoint struct {
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// TopClientPoint is one entry of the best customers list
type TopClientPoint struct {
	Customer   string          `json:"customer"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	BillCount  int             `json:"bill_count"`
}

// GetDashboardStats returns dashboard statistics, served from cache while
// fresh
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	return cache.GetOrLoad(s.stats, dashboardCacheKey, s.ttl, func() (*DashboardStats, error) {
		return s.compute(ctx)
	})
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	stats := &DashboardStats{GeneratedAt: now}

	billCount, err := s.analyticsRepo.CountBills(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalBills = billCount

	productCount, err := s.countProducts(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	if stats.TotalRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx); err != nil {
		return nil, err
	}
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if stats.MonthlyRevenue, err = s.analyticsRepo.GetRevenueSince(ctx, startOfMonth); err != nil {
		return nil, err
	}
	if billCount > 0 {
		stats.AverageBill = stats.TotalRevenue.Div(decimal.NewFromInt(billCount)).Round(2)
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, dashboardDays)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:      d.Date.Format("2006-01-02"),
			Revenue:   d.Revenue,
			BillCount: d.BillCount,
		})
	}

	products, err := s.analyticsRepo.GetTopProducts(ctx, dashboardTopN)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = make([]TopProductPoint, 0, len(products))
	for _, p := range products {
		stats.TopProducts = append(stats.TopProducts, TopProductPoint{Name: p.Name, QuantitySold: p.QuantitySold, Revenue: p.Revenue})
	}

	clients, err := s.analyticsRepo.GetTopClients(ctx, dashboardTopN)
	if err != nil {
		return nil, err
	}
	stats.TopClients = make([]TopClientPoint, 0, len(clients))
	for _, c := range clients {
		stats.TopClients = append(stats.TopClients, TopClientPoint{Customer: c.CustomerIdentifier, TotalSpent: c.TotalSpent, BillCount: c.BillCount})
	}

	s.log.Debug("dashboard stats computed", zap.Int64("bills", billCount))
	return stats, nil
}

func (s *DashboardService) countProducts(ctx context.Context) (int64, error) {
	// only the count is needed
	params := &repository.ProductFilterParams{Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1}}
	_, total, err := s.productRepo.List(ctx, params)
	return total, err
}
