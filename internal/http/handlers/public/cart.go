package public

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/service"
)

// CartItemRequest is the add-or-set cart line request.
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// MergeCartRequest carries a guest cart captured client-side before login.
type MergeCartRequest struct {
	Items []CartItemRequest `json:"items" binding:"required"`
}

// GetCart returns the persisted cart with live product data.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	items, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch cart", err)
		return
	}
	response.Success(c, gin.H{"items": items})
}

// AddCartItem adds a quantity onto an existing line, creating it when
// absent.
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.CartService.AddItem(service.AddCartItemInput{
		UserID:    uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// SetCartItem sets a line to an absolute quantity; zero removes the line.
func (h *Handler) SetCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if err := h.CartService.SetQuantity(uid, uint(productID), req.Quantity); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// RemoveCartItem deletes a line. Removing an absent line succeeds.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	if err := h.CartService.RemoveItem(uid, uint(productID)); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "failed to clear cart", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// MergeCart folds a guest cart into the persisted one after login.
// Unavailable products are skipped rather than failing the merge.
func (h *Handler) MergeCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	items := make([]service.AddCartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.AddCartItemInput{
			UserID:    uid,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := h.CartService.Merge(service.MergeCartInput{UserID: uid, Items: items}); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to merge cart")
		return
	}
	response.Success(c, gin.H{"merged": true})
}
