package public

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/constants"
	handlershared "github.com/bakehouse-next/internal/http/handlers/shared"
	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/repository"
	"github.com/bakehouse-next/internal/service"
)

// PlaceOrderRequest is the pickup checkout request. Guests and logged-in
// users share it; only product ids and quantities are priced.
type PlaceOrderRequest struct {
	CustomerName  string           `json:"customer_name" binding:"required"`
	CustomerEmail string           `json:"customer_email" binding:"required"`
	CustomerPhone string           `json:"customer_phone"`
	Items         []OrderItemInput `json:"items" binding:"required"`
	Notes         string           `json:"notes"`
	PickupDate    string           `json:"pickup_date"`
}

// OrderItemInput is one requested order line.
type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func (req *PlaceOrderRequest) toInput(userID *uint, paymentMethod string) (service.PlaceOrderInput, error) {
	input := service.PlaceOrderInput{
		UserID:        userID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		PaymentMethod: paymentMethod,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.PlaceOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if req.PickupDate != "" {
		pickup, err := time.Parse("2006-01-02", req.PickupDate)
		if err != nil {
			return input, err
		}
		input.PickupDate = &pickup
	}
	return input, nil
}

// PlaceOrder creates a pickup order paid at the counter.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput(getOptionalUserID(c), constants.PaymentMethodPickup)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid pickup date", nil)
		return
	}
	order, err := h.OrderService.PlaceOrder(input)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to place order")
		return
	}
	response.Success(c, gin.H{"order": order})
}

// ListMyOrders returns the authenticated user's orders, newest first.
func (h *Handler) ListMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   &uid,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list orders", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetMyOrder returns one of the authenticated user's orders.
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	order, err := h.OrderService.GetUserOrder(uid, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}
	response.Success(c, gin.H{"order": order})
}

// GetOrderBySession looks an order up by Stripe checkout session for the
// confirmation page. Payment status still comes from the webhook, not from
// the redirect.
func (h *Handler) GetOrderBySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, response.CodeBadRequest, "session_id is required", nil)
		return
	}
	order, err := h.OrderService.GetByStripeSessionID(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}
	// Snapshot items only; the endpoint is public, so customer contact
	// fields stay out of the payload.
	response.Success(c, gin.H{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total_cents":    order.TotalCents,
		"items":          order.Items,
	})
}
