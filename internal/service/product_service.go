package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bakehouse-next/internal/cache"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/repository"
)

const productCachePrefix = "products:list"

// ProductService handles catalog reads and admin catalog mutations.
type ProductService struct {
	productRepo repository.ProductRepository
	cacheTTL    time.Duration
}

// NewProductService creates a product service. A zero ttl disables the
// list cache even when redis is up.
func NewProductService(productRepo repository.ProductRepository, cacheTTLSeconds int) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cacheTTL:    time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// ProductListResult is one page of products with its total.
type ProductListResult struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// ListPublic returns available products for the storefront, cached per
// filter when redis is enabled.
func (s *ProductService) ListPublic(ctx context.Context, filter repository.ProductListFilter) (*ProductListResult, error) {
	filter.OnlyAvailable = true

	cacheKey := s.listCacheKey(filter)
	if s.cacheTTL > 0 {
		var cached ProductListResult
		hit, err := cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warnw("product_cache_read_failed", "key", cacheKey, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	result := &ProductListResult{Products: products, Total: total}

	if s.cacheTTL > 0 {
		if err := cache.SetJSON(ctx, cacheKey, result, s.cacheTTL); err != nil {
			logger.Warnw("product_cache_write_failed", "key", cacheKey, "error", err)
		}
	}
	return result, nil
}

// ListAdmin returns products for the admin surface, including unavailable
// ones. Never cached.
func (s *ProductService) ListAdmin(filter repository.ProductListFilter) (*ProductListResult, error) {
	filter.OnlyAvailable = false
	products, total, err := s.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products, Total: total}, nil
}

// GetPublic returns one storefront product. Unavailable or deleted
// products are not found to the public surface.
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Available {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetAdmin returns one product regardless of availability.
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ProductInput carries admin create/update fields.
type ProductInput struct {
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
	Category    string
	Available   *bool
}

// Create adds a catalog item.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	if input.PriceCents <= 0 {
		return nil, ErrProductPriceInvalid
	}
	available := true
	if input.Available != nil {
		available = *input.Available
	}
	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Category:    strings.TrimSpace(input.Category),
		Available:   available,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	logger.Infow("product_created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update edits a catalog item. Existing order item snapshots keep their
// old name and price.
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetAdmin(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.PriceCents != 0 {
		if input.PriceCents <= 0 {
			return nil, ErrProductPriceInvalid
		}
		product.PriceCents = input.PriceCents
	}
	product.Description = strings.TrimSpace(input.Description)
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.Category = strings.TrimSpace(input.Category)
	if input.Available != nil {
		product.Available = *input.Available
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	logger.Infow("product_updated", "product_id", product.ID)
	return product, nil
}

// Delete soft-deletes a catalog item. Orders referencing it keep their
// snapshots.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetAdmin(id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	logger.Infow("product_deleted", "product_id", id)
	return nil
}

func (s *ProductService) listCacheKey(filter repository.ProductListFilter) string {
	return fmt.Sprintf("%s:c=%s:q=%s:p=%d:s=%d",
		productCachePrefix,
		strings.TrimSpace(filter.Category),
		strings.TrimSpace(filter.Search),
		filter.Page,
		filter.PageSize,
	)
}

func (s *ProductService) invalidateListCache(ctx context.Context) {
	if err := cache.DelByPrefix(ctx, productCachePrefix); err != nil {
		logger.Warnw("product_cache_invalidate_failed", "error", err)
	}
}
