package repository

import (
	"testing"

	"github.com/bakehouse-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:cartrepo?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate cart failed: %v", err)
	}
	return NewCartRepository(db), db
}

func TestCartAddQuantityUpserts(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	userID, productID := uint(201), uint(301)

	for _, qty := range []int{2, 3} {
		err := repo.AddQuantity(&models.CartItem{UserID: userID, ProductID: productID, Quantity: qty})
		if err != nil {
			t.Fatalf("add quantity failed: %v", err)
		}
	}

	item, err := repo.GetByUserAndProduct(userID, productID)
	if err != nil {
		t.Fatalf("get line failed: %v", err)
	}
	if item == nil || item.Quantity != 5 {
		t.Fatalf("line quantity want 5 got %+v", item)
	}

	// A single row per (user, product) pair.
	items, err := repo.ListByUser(userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("line count want 1 got %d", len(items))
	}
}

func TestCartSetQuantityZeroDeletes(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	userID, productID := uint(202), uint(302)

	if err := repo.AddQuantity(&models.CartItem{UserID: userID, ProductID: productID, Quantity: 4}); err != nil {
		t.Fatalf("add quantity failed: %v", err)
	}
	if err := repo.SetQuantity(userID, productID, 0); err != nil {
		t.Fatalf("set quantity 0 failed: %v", err)
	}

	item, err := repo.GetByUserAndProduct(userID, productID)
	if err != nil {
		t.Fatalf("get line failed: %v", err)
	}
	if item != nil {
		t.Fatalf("line should be gone, got %+v", item)
	}
}

func TestCartClearByUserLeavesOthers(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	alice, bob := uint(203), uint(204)

	for _, productID := range []uint{303, 304} {
		if err := repo.AddQuantity(&models.CartItem{UserID: alice, ProductID: productID, Quantity: 1}); err != nil {
			t.Fatalf("add quantity failed: %v", err)
		}
	}
	if err := repo.AddQuantity(&models.CartItem{UserID: bob, ProductID: 303, Quantity: 2}); err != nil {
		t.Fatalf("add quantity failed: %v", err)
	}

	if err := repo.ClearByUser(alice); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	aliceItems, err := repo.ListByUser(alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(aliceItems) != 0 {
		t.Fatalf("alice cart want empty got %d lines", len(aliceItems))
	}

	bobItems, err := repo.ListByUser(bob)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bobItems) != 1 {
		t.Fatalf("bob cart want 1 line got %d", len(bobItems))
	}
}

func TestCartDeleteIsIdempotent(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	if err := repo.DeleteByUserAndProduct(205, 305); err != nil {
		t.Fatalf("delete absent line failed: %v", err)
	}
}
