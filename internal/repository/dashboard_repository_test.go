package repository

import (
	"testing"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Each test gets its own named in-memory DB; the overview counts whole
// tables, so shared state would skew them.
func setupDashboardRepositoryTest(t *testing.T, name string) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func seedDashboardOrder(t *testing.T, db *gorm.DB, status, paymentStatus string, totalCents int64) {
	t.Helper()
	order := &models.Order{
		CustomerName:  "Dash Customer",
		CustomerEmail: "dash@example.com",
		TotalCents:    totalCents,
		Status:        status,
		PaymentMethod: constants.PaymentMethodPickup,
		PaymentStatus: paymentStatus,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
}

func TestDashboardOverviewAggregates(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t, "dashagg")

	seedDashboardOrder(t, db, constants.OrderStatusPending, constants.PaymentStatusPending, 500)
	seedDashboardOrder(t, db, constants.OrderStatusCompleted, constants.PaymentStatusPaid, 1500)
	seedDashboardOrder(t, db, constants.OrderStatusCompleted, constants.PaymentStatusPaid, 2500)
	seedDashboardOrder(t, db, constants.OrderStatusCancelled, constants.PaymentStatusFailed, 900)

	for _, available := range []bool{true, true, false} {
		product := &models.Product{Name: "Dash Product", PriceCents: 100, Available: available}
		if err := db.Create(product).Error; err != nil {
			t.Fatalf("seed product failed: %v", err)
		}
	}

	row, err := repo.GetOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if row.OrdersTotal != 4 {
		t.Fatalf("orders total want 4 got %d", row.OrdersTotal)
	}
	if row.PendingOrders != 1 || row.CompletedOrders != 2 || row.CancelledOrders != 1 {
		t.Fatalf("status counts mismatch: %+v", row)
	}
	// Only paid orders count toward revenue.
	if row.PaidRevenueCents != 4000 {
		t.Fatalf("paid revenue want 4000 got %d", row.PaidRevenueCents)
	}
	if row.ProductsTotal != 3 || row.ProductsVisible != 2 {
		t.Fatalf("product counts mismatch: %+v", row)
	}
}

func TestDashboardOverviewEmpty(t *testing.T) {
	repo, _ := setupDashboardRepositoryTest(t, "dashempty")
	row, err := repo.GetOverview()
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if row.OrdersTotal != 0 || row.PaidRevenueCents != 0 || row.ProductsTotal != 0 {
		t.Fatalf("empty overview want zeros got %+v", row)
	}
}
