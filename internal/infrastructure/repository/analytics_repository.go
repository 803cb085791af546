package repository

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db, now: time.Now}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.name AS name,
			COALESCE(SUM(bi.quantity), 0) AS quantity_sold,
			COALESCE(SUM(bi.quantity * bi.unit_price), 0) AS revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		GROUP BY bi.name
		ORDER BY revenue DESC, bi.name ASC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopClients(ctx context.Context, limit int) ([]domainRepo.TopClientResult, error) {
	var results []domainRepo.TopClientResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			customer_identifier,
			COALESCE(SUM(total), 0) AS total_spent,
			COUNT(id) AS bill_count
		FROM bills
		GROUP BY customer_identifier
		ORDER BY total_spent DESC, customer_identifier ASC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := r.now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.AddDate(0, 0, 1)

		var revenue decimal.Decimal
		var count int
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total), 0), COUNT(id)
			FROM bills
			WHERE created_at >= ? AND created_at < ?
		`, startOfDay, endOfDay).Row().Scan(&revenue, &count)
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:      startOfDay,
			Revenue:   revenue,
			BillCount: count,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0)
		FROM bills
	`).Row().Scan(&revenue)

	return revenue, err
}

func (r *analyticsRepository) GetRevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0)
		FROM bills
		WHERE created_at >= ?
	`, since).Row().Scan(&revenue)

	return revenue, err
}

func (r *analyticsRepository) CountBills(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("bills").Count(&count).Error
	return count, err
}
