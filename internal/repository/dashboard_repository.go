package repository

import (
	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository aggregates storefront statistics. Read-only; no
// business rules live here.
type DashboardRepository interface {
	GetOverview() (DashboardOverviewRow, error)
}

// DashboardOverviewRow is the raw aggregation result.
type DashboardOverviewRow struct {
	OrdersTotal      int64
	PendingOrders    int64
	ConfirmedOrders  int64
	ReadyOrders      int64
	CompletedOrders  int64
	CancelledOrders  int64
	PaidRevenueCents int64
	ProductsTotal    int64
	ProductsVisible  int64
}

// GormDashboardRepository is the GORM implementation.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a dashboard repository.
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview counts orders per status, sums paid revenue and counts the
// catalog.
func (r *GormDashboardRepository) GetOverview() (DashboardOverviewRow, error) {
	var row DashboardOverviewRow

	statusCounts := map[string]*int64{
		constants.OrderStatusPending:   &row.PendingOrders,
		constants.OrderStatusConfirmed: &row.ConfirmedOrders,
		constants.OrderStatusReady:     &row.ReadyOrders,
		constants.OrderStatusCompleted: &row.CompletedOrders,
		constants.OrderStatusCancelled: &row.CancelledOrders,
	}

	if err := r.db.Model(&models.Order{}).Count(&row.OrdersTotal).Error; err != nil {
		return row, err
	}
	for status, dest := range statusCounts {
		if err := r.db.Model(&models.Order{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return row, err
		}
	}

	var revenue struct {
		Total int64
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_cents), 0) AS total").
		Where("payment_status = ?", constants.PaymentStatusPaid).
		Take(&revenue).Error; err != nil {
		return row, err
	}
	row.PaidRevenueCents = revenue.Total

	if err := r.db.Model(&models.Product{}).Count(&row.ProductsTotal).Error; err != nil {
		return row, err
	}
	if err := r.db.Model(&models.Product{}).Where("available = ?", true).Count(&row.ProductsVisible).Error; err != nil {
		return row, err
	}

	return row, nil
}
