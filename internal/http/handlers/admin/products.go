package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/repository"
	"github.com/bakehouse-next/internal/service"
)

// ProductRequest is the create/update product payload. Price is integer
// cents and must be positive.
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
	Available   *bool  `json:"available"`
}

func (req *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	}
}

func respondProductError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "product not found", nil)
	case errors.Is(err, service.ErrProductPriceInvalid):
		respondError(c, response.CodeBadRequest, "price must be greater than zero", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "invalid product input", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}

// AdminListProducts lists all products including unavailable ones.
func (h *Handler) AdminListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	result, err := h.ProductService.ListAdmin(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list products", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": result.Products}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     result.Total,
		TotalPage: (result.Total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdminGetProduct returns one product regardless of availability.
func (h *Handler) AdminGetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	product, err := h.ProductService.GetAdmin(uint(id))
	if err != nil {
		respondProductError(c, err, "failed to fetch product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// AdminCreateProduct creates a product.
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to create product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// AdminUpdateProduct updates a product. Price changes do not touch
// snapshots on existing orders.
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	product, err := h.ProductService.Update(c.Request.Context(), uint(id), req.toInput())
	if err != nil {
		respondProductError(c, err, "failed to update product")
		return
	}
	response.Success(c, gin.H{"product": product})
}

// AdminDeleteProduct soft-deletes a product. Past orders keep their
// snapshot rows.
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	if err := h.ProductService.Delete(c.Request.Context(), uint(id)); err != nil {
		respondProductError(c, err, "failed to delete product")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
