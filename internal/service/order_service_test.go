package service

import (
	"errors"
	"testing"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:ordersvc?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		nil,
	)
	return svc, db
}

func createCatalogProduct(t *testing.T, db *gorm.DB, name string, priceCents int64, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:       name,
		PriceCents: priceCents,
		Category:   "bread",
		Available:  available,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         constants.UserRoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func pickupOrderInput(items ...PlaceOrderItem) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerName:  "Jamie Baker",
		CustomerEmail: "jamie@example.com",
		Items:         items,
		PaymentMethod: constants.PaymentMethodPickup,
	}
}

func TestPlaceOrderComputesTotalFromCatalog(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	croissant := createCatalogProduct(t, db, "Croissant Total", 350, true)
	sourdough := createCatalogProduct(t, db, "Sourdough Total", 800, true)

	order, err := svc.PlaceOrder(pickupOrderInput(
		PlaceOrderItem{ProductID: croissant.ID, Quantity: 2},
		PlaceOrderItem{ProductID: sourdough.ID, Quantity: 1},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.TotalCents != 1500 {
		t.Fatalf("total want 1500 got %d", order.TotalCents)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("payment status want pending got %s", order.PaymentStatus)
	}
	if len(order.Items) != 2 {
		t.Fatalf("item count want 2 got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.ProductName == "" || item.PriceCentsAtOrder <= 0 {
			t.Fatalf("snapshot incomplete: %+v", item)
		}
	}
}

func TestPlaceOrderSnapshotSurvivesPriceChange(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Rye Snapshot", 750, true)

	order, err := svc.PlaceOrder(pickupOrderInput(PlaceOrderItem{ProductID: product.ID, Quantity: 2}))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price_cents", 999).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	reloaded, err := svc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.TotalCents != 1500 {
		t.Fatalf("total after price change want 1500 got %d", reloaded.TotalCents)
	}
	if reloaded.Items[0].PriceCentsAtOrder != 750 {
		t.Fatalf("snapshot price want 750 got %d", reloaded.Items[0].PriceCentsAtOrder)
	}
}

func TestPlaceOrderUnavailableProductRollsBack(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	good := createCatalogProduct(t, db, "Baguette Rollback", 300, true)
	gone := createCatalogProduct(t, db, "Danish Rollback", 425, false)

	input := pickupOrderInput(
		PlaceOrderItem{ProductID: good.ID, Quantity: 1},
		PlaceOrderItem{ProductID: gone.ID, Quantity: 1},
	)
	input.CustomerEmail = "rollback@example.com"

	if _, err := svc.PlaceOrder(input); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}

	var count int64
	if err := db.Model(&models.Order{}).Where("customer_email = ?", "rollback@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rolled back order count want 0 got %d", count)
	}
}

func TestPlaceOrderRollbackKeepsCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "keepcart@example.com")
	good := createCatalogProduct(t, db, "Cookie KeepCart", 250, true)
	gone := createCatalogProduct(t, db, "Tart KeepCart", 600, false)

	if err := db.Create(&models.CartItem{UserID: user.ID, ProductID: good.ID, Quantity: 2}).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	input := pickupOrderInput(
		PlaceOrderItem{ProductID: good.ID, Quantity: 2},
		PlaceOrderItem{ProductID: gone.ID, Quantity: 1},
	)
	input.UserID = &user.ID

	if _, err := svc.PlaceOrder(input); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("cart line count want 1 got %d", count)
	}
}

func TestPlaceOrderClearsCartOnSuccess(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "clearcart@example.com")
	product := createCatalogProduct(t, db, "Roll ClearCart", 450, true)

	if err := db.Create(&models.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 3}).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	input := pickupOrderInput(PlaceOrderItem{ProductID: product.ID, Quantity: 3})
	input.UserID = &user.ID

	if _, err := svc.PlaceOrder(input); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart line count want 0 got %d", count)
	}
}

func TestPlaceOrderWithoutItemsUsesCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "cartorder@example.com")
	scone := createCatalogProduct(t, db, "Scone CartOrder", 325, true)
	loaf := createCatalogProduct(t, db, "Loaf CartOrder", 800, true)

	for _, line := range []models.CartItem{
		{UserID: user.ID, ProductID: scone.ID, Quantity: 2},
		{UserID: user.ID, ProductID: loaf.ID, Quantity: 1},
	} {
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("seed cart failed: %v", err)
		}
	}

	input := pickupOrderInput()
	input.UserID = &user.ID

	order, err := svc.PlaceOrder(input)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("item count want 2 got %d", len(order.Items))
	}
	if order.TotalCents != 1450 {
		t.Fatalf("total want 1450 got %d", order.TotalCents)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("cart line count want 0 got %d", count)
	}
}

func TestPlaceOrderWithoutItemsEmptyCart(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user := createTestUser(t, db, "emptycart@example.com")

	input := pickupOrderInput()
	input.UserID = &user.ID

	if _, err := svc.PlaceOrder(input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput got %v", err)
	}
}

func TestPlaceOrderFoldsDuplicateLines(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Croissant Dupes", 350, true)

	order, err := svc.PlaceOrder(pickupOrderInput(
		PlaceOrderItem{ProductID: product.ID, Quantity: 1},
		PlaceOrderItem{ProductID: product.ID, Quantity: 2},
	))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("item count want 1 got %d", len(order.Items))
	}
	if order.Items[0].Quantity != 3 {
		t.Fatalf("merged quantity want 3 got %d", order.Items[0].Quantity)
	}
	if order.TotalCents != 1050 {
		t.Fatalf("total want 1050 got %d", order.TotalCents)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Loaf Validate", 800, true)

	cases := []struct {
		name    string
		mutate  func(*PlaceOrderInput)
		wantErr error
	}{
		{"no items", func(in *PlaceOrderInput) { in.Items = nil }, ErrInvalidInput},
		{"bad email", func(in *PlaceOrderInput) { in.CustomerEmail = "not-an-email" }, ErrInvalidInput},
		{"empty name", func(in *PlaceOrderInput) { in.CustomerName = "  " }, ErrInvalidInput},
		{"zero quantity", func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 }, ErrInvalidOrderItem},
		{"unknown payment method", func(in *PlaceOrderInput) { in.PaymentMethod = "iou" }, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := pickupOrderInput(PlaceOrderItem{ProductID: product.ID, Quantity: 1})
			tc.mutate(&input)
			if _, err := svc.PlaceOrder(input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	if _, err := svc.PlaceOrder(pickupOrderInput(PlaceOrderItem{ProductID: 999999, Quantity: 1})); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}

func TestGetUserOrderHidesOtherUsersOrders(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	product := createCatalogProduct(t, db, "Tart Ownership", 600, true)

	input := pickupOrderInput(PlaceOrderItem{ProductID: product.ID, Quantity: 1})
	input.UserID = &owner.ID
	order, err := svc.PlaceOrder(input)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := svc.GetUserOrder(owner.ID, order.ID); err != nil {
		t.Fatalf("owner fetch failed: %v", err)
	}
	if _, err := svc.GetUserOrder(other.ID, order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}
