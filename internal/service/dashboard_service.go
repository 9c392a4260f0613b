package service

import (
	"github.com/shopspring/decimal"

	"github.com/bakehouse-next/internal/repository"
)

// DashboardService shapes storefront statistics for the admin overview.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview is the admin landing page payload.
type DashboardOverview struct {
	Orders struct {
		Total     int64 `json:"total"`
		Pending   int64 `json:"pending"`
		Confirmed int64 `json:"confirmed"`
		Ready     int64 `json:"ready"`
		Completed int64 `json:"completed"`
		Cancelled int64 `json:"cancelled"`
	} `json:"orders"`
	Revenue struct {
		PaidCents int64  `json:"paid_cents"`
		Paid      string `json:"paid"`
	} `json:"revenue"`
	Products struct {
		Total     int64 `json:"total"`
		Available int64 `json:"available"`
	} `json:"products"`
}

// GetOverview aggregates counts and paid revenue. Revenue is also
// rendered as a decimal string so the frontend never does cent math.
func (s *DashboardService) GetOverview() (*DashboardOverview, error) {
	row, err := s.dashboardRepo.GetOverview()
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{}
	overview.Orders.Total = row.OrdersTotal
	overview.Orders.Pending = row.PendingOrders
	overview.Orders.Confirmed = row.ConfirmedOrders
	overview.Orders.Ready = row.ReadyOrders
	overview.Orders.Completed = row.CompletedOrders
	overview.Orders.Cancelled = row.CancelledOrders
	overview.Revenue.PaidCents = row.PaidRevenueCents
	overview.Revenue.Paid = decimal.NewFromInt(row.PaidRevenueCents).Div(decimal.NewFromInt(100)).StringFixed(2)
	overview.Products.Total = row.ProductsTotal
	overview.Products.Available = row.ProductsVisible
	return overview, nil
}
