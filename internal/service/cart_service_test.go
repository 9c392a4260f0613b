package service

import (
	"errors"
	"testing"

	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:cartsvc?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, db
}

func cartLineQuantity(t *testing.T, db *gorm.DB, userID, productID uint) int {
	t.Helper()
	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		t.Fatalf("load cart line failed: %v", err)
	}
	return item.Quantity
}

func TestCartAddItemAccumulates(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "cart-add@example.com")
	product := createCatalogProduct(t, db, "Scone Add", 375, true)

	for _, qty := range []int{2, 3} {
		if err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: qty}); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
	if got := cartLineQuantity(t, db, user.ID, product.ID); got != 5 {
		t.Fatalf("quantity want 5 got %d", got)
	}
}

func TestCartAddItemUnavailableProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "cart-unavail@example.com")
	product := createCatalogProduct(t, db, "Scone Unavail", 375, false)

	err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 1})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
	if err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: 999999, Quantity: 1}); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("unknown product want ErrProductNotAvailable got %v", err)
	}
}

func TestCartSetQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "cart-set@example.com")
	product := createCatalogProduct(t, db, "Scone Set", 375, true)

	if err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := svc.SetQuantity(user.ID, product.ID, 7); err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if got := cartLineQuantity(t, db, user.ID, product.ID); got != 7 {
		t.Fatalf("quantity want 7 got %d", got)
	}

	// Zero removes the line.
	if err := svc.SetQuantity(user.ID, product.ID, 0); err != nil {
		t.Fatalf("set quantity 0 failed: %v", err)
	}
	if got := cartLineQuantity(t, db, user.ID, product.ID); got != 0 {
		t.Fatalf("quantity after removal want 0 got %d", got)
	}

	// Setting a missing line is an error; removing one is not.
	if err := svc.SetQuantity(user.ID, product.ID, 3); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("want ErrCartItemNotFound got %v", err)
	}
	if err := svc.RemoveItem(user.ID, product.ID); err != nil {
		t.Fatalf("remove absent line failed: %v", err)
	}
}

func TestCartMergeSkipsUnavailable(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "cart-merge@example.com")
	good := createCatalogProduct(t, db, "Scone Merge", 375, true)
	gone := createCatalogProduct(t, db, "Scone MergeGone", 375, false)

	if err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: good.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	err := svc.Merge(MergeCartInput{
		UserID: user.ID,
		Items: []AddCartItemInput{
			{ProductID: good.ID, Quantity: 2},
			{ProductID: gone.ID, Quantity: 1},
			{ProductID: 999999, Quantity: 4},
			{ProductID: good.ID, Quantity: 0},
		},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if got := cartLineQuantity(t, db, user.ID, good.ID); got != 3 {
		t.Fatalf("merged quantity want 3 got %d", got)
	}
	if got := cartLineQuantity(t, db, user.ID, gone.ID); got != 0 {
		t.Fatalf("unavailable line want 0 got %d", got)
	}
}

func TestCartListFlagsUnavailableLines(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	user := createTestUser(t, db, "cart-list@example.com")
	product := createCatalogProduct(t, db, "Scone List", 375, true)

	if err := svc.AddItem(AddCartItemInput{UserID: user.ID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Update("available", false).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	details, err := svc.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("line count want 1 got %d", len(details))
	}
	if details[0].Available {
		t.Fatalf("line should be flagged unavailable")
	}
	if details[0].Quantity != 2 {
		t.Fatalf("quantity want 2 got %d", details[0].Quantity)
	}
}
