package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult is a product's sales performance
type TopProductResult struct {
	Name         string
	QuantitySold int
	Revenue      decimal.Decimal
}

// TopClientResult is a customer's spending
type TopClientResult struct {
	CustomerIdentifier string
	TotalSpent         decimal.Decimal
	BillCount          int
}

// DailySalesResult is the revenue of a single day
type DailySalesResult struct {
	Date      time.Time
	Revenue   decimal.Decimal
	BillCount int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, limit int) ([]TopProductResult, error)

	// GetTopClients returns top customers by total spending
	GetTopClients(ctx context.Context, limit int) ([]TopClientResult, error)

	// GetDailySales returns one entry per day for the last N days, oldest first
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetTotalRevenue returns the sum of all bill totals
	GetTotalRevenue(ctx context.Context) (decimal.Decimal, error)

	// GetRevenueSince returns the sum of bill totals created at or after since
	GetRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)

	// CountBills returns the number of persisted bills
	CountBills(ctx context.Context) (int64, error)
}
