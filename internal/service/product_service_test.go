package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:productsvc?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	// ttl 0 keeps the list cache out of the way.
	return NewProductService(repository.NewProductRepository(db), 0), db
}

func TestProductGetPublicHidesUnavailable(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	hidden := createCatalogProduct(t, db, "Hidden Eclair", 500, false)
	visible := createCatalogProduct(t, db, "Visible Eclair", 500, true)

	if _, err := svc.GetPublic(hidden.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("hidden product want ErrProductNotFound got %v", err)
	}
	got, err := svc.GetPublic(visible.ID)
	if err != nil {
		t.Fatalf("visible product failed: %v", err)
	}
	if got.ID != visible.ID {
		t.Fatalf("product id want %d got %d", visible.ID, got.ID)
	}

	// Admin surface sees both.
	if _, err := svc.GetAdmin(hidden.ID); err != nil {
		t.Fatalf("admin fetch of hidden product failed: %v", err)
	}
}

func TestProductCreateValidation(t *testing.T) {
	svc, _ := setupProductServiceTest(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ProductInput{Name: " ", PriceCents: 100}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name want ErrInvalidInput got %v", err)
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "Free Bread", PriceCents: 0}); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("zero price want ErrProductPriceInvalid got %v", err)
	}
	if _, err := svc.Create(ctx, ProductInput{Name: "Negative Bread", PriceCents: -5}); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("negative price want ErrProductPriceInvalid got %v", err)
	}

	product, err := svc.Create(ctx, ProductInput{Name: "  Flatbread  ", PriceCents: 450, Category: "bread"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "Flatbread" {
		t.Fatalf("name not trimmed: %q", product.Name)
	}
	if !product.Available {
		t.Fatalf("default availability want true")
	}
}

func TestProductUpdateTogglesAvailability(t *testing.T) {
	svc, db := setupProductServiceTest(t)
	product := createCatalogProduct(t, db, "Toggle Loaf", 800, true)
	ctx := context.Background()

	off := false
	updated, err := svc.Update(ctx, product.ID, ProductInput{Available: &off})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Available {
		t.Fatalf("availability want false")
	}
	if updated.PriceCents != 800 {
		t.Fatalf("price should be untouched, got %d", updated.PriceCents)
	}

	if _, err := svc.Update(ctx, product.ID, ProductInput{PriceCents: -10}); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("negative price want ErrProductPriceInvalid got %v", err)
	}
}

func TestProductDeleteMissing(t *testing.T) {
	svc, _ := setupProductServiceTest(t)
	if err := svc.Delete(context.Background(), 424242); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}
}
