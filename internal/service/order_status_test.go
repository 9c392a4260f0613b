package service

import (
	"errors"
	"testing"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/models"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		allow bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusReady, false},
		{constants.OrderStatusPending, constants.OrderStatusCompleted, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusReady, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusCancelled, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusCompleted, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusPending, false},
		{constants.OrderStatusReady, constants.OrderStatusCompleted, true},
		{constants.OrderStatusReady, constants.OrderStatusCancelled, true},
		{constants.OrderStatusReady, constants.OrderStatusConfirmed, false},
		{constants.OrderStatusCompleted, constants.OrderStatusCancelled, false},
		{constants.OrderStatusCompleted, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusPending, false},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.allow {
			t.Errorf("%s -> %s: want %v got %v", tc.from, tc.to, tc.allow, got)
		}
	}
}

func placeStatusTestOrder(t *testing.T, svc *OrderService, productID uint) *models.Order {
	t.Helper()
	order, err := svc.PlaceOrder(pickupOrderInput(PlaceOrderItem{ProductID: productID, Quantity: 1}))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return order
}

func TestUpdateOrderStatusLifecycle(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Bun Lifecycle", 300, true)
	order := placeStatusTestOrder(t, svc, product.ID)

	for _, status := range []string{
		constants.OrderStatusConfirmed,
		constants.OrderStatusReady,
		constants.OrderStatusCompleted,
	} {
		updated, err := svc.UpdateOrderStatus(order.ID, status)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("status want %s got %s", status, updated.Status)
		}
	}

	// Completed is terminal.
	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("terminal transition want ErrOrderStatusInvalid got %v", err)
	}
}

func TestUpdateOrderStatusSameStatusIsNoOp(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Bun NoOp", 300, true)
	order := placeStatusTestOrder(t, svc, product.ID)

	updated, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusPending)
	if err != nil {
		t.Fatalf("same-status update failed: %v", err)
	}
	if updated.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", updated.Status)
	}
}

func TestUpdateOrderStatusRejectsSkips(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Bun Skip", 300, true)
	order := placeStatusTestOrder(t, svc, product.ID)

	if _, err := svc.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("skip transition want ErrOrderStatusInvalid got %v", err)
	}

	reloaded, err := svc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("status after rejected transition want pending got %s", reloaded.Status)
	}
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	product := createCatalogProduct(t, db, "Bun Unknown", 300, true)
	order := placeStatusTestOrder(t, svc, product.ID)

	if _, err := svc.UpdateOrderStatus(order.ID, "shipped"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unknown status want ErrOrderStatusInvalid got %v", err)
	}
}

func TestUpdateOrderStatusMissingOrder(t *testing.T) {
	svc, _ := setupOrderServiceTest(t)
	if _, err := svc.UpdateOrderStatus(999999, constants.OrderStatusConfirmed); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}
