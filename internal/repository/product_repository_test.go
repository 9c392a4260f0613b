package repository

import (
	"testing"

	"github.com/bakehouse-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:productrepo?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate products failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createRepoProduct(t *testing.T, repo *GormProductRepository, name, category string, priceCents int64, available bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: name + " description",
		PriceCents:  priceCents,
		Category:    category,
		Available:   available,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestProductListOnlyAvailable(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createRepoProduct(t, repo, "Visible Loaf", "list-avail", 800, true)
	createRepoProduct(t, repo, "Hidden Loaf", "list-avail", 800, false)

	products, total, err := repo.List(ProductListFilter{Category: "list-avail", OnlyAvailable: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("want 1 visible product got total=%d len=%d", total, len(products))
	}
	if products[0].Name != "Visible Loaf" {
		t.Fatalf("want Visible Loaf got %s", products[0].Name)
	}

	_, total, err = repo.List(ProductListFilter{Category: "list-avail"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("admin view want 2 got %d", total)
	}
}

func TestProductListSearch(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createRepoProduct(t, repo, "Almond Searchling", "search", 500, true)
	createRepoProduct(t, repo, "Walnut Bun", "search", 500, true)

	products, total, err := repo.List(ProductListFilter{Category: "search", Search: "searchling"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("search want 1 hit got total=%d len=%d", total, len(products))
	}
	if products[0].Name != "Almond Searchling" {
		t.Fatalf("search hit want Almond Searchling got %s", products[0].Name)
	}
}

func TestProductListPagination(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	for _, name := range []string{"Page A", "Page B", "Page C"} {
		createRepoProduct(t, repo, name, "paging", 300, true)
	}

	products, total, err := repo.List(ProductListFilter{Category: "paging", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	if len(products) != 1 {
		t.Fatalf("page 2 size want 1 got %d", len(products))
	}
}

func TestProductListByIDs(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	a := createRepoProduct(t, repo, "ByID A", "byids", 300, true)
	b := createRepoProduct(t, repo, "ByID B", "byids", 300, true)

	products, err := repo.ListByIDs([]uint{a.ID, b.ID, 999999})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("want 2 products got %d", len(products))
	}

	empty, err := repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("empty ids failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty ids want 0 got %d", len(empty))
	}
}

func TestProductSoftDeleteHidesFromReads(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	product := createRepoProduct(t, repo, "Deleted Loaf", "softdelete", 800, true)

	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := repo.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted product still readable: %+v", got)
	}

	_, total, err := repo.List(ProductListFilter{Category: "softdelete"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("deleted product still listed, total %d", total)
	}
}

func TestProductGetByIDMissing(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	got, err := repo.GetByID(987654)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("missing product want nil got %+v", got)
	}
}
