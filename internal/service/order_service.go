package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/queue"
	"github.com/bakehouse-next/internal/repository"
)

// OrderService owns order placement and lifecycle. Totals are always
// recomputed server side from the product table; client supplied prices
// are never trusted.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	queueClient *queue.Client
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		queueClient: queueClient,
	}
}

// PlaceOrderItem is one requested line. Only the product id and quantity
// come from the client.
type PlaceOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type PlaceOrderInput struct {
	UserID        *uint
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Items         []PlaceOrderItem
	Notes         string
	PickupDate    *time.Time
	PaymentMethod string
}

func (in *PlaceOrderInput) validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if in.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
		return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
	}
	if len(in.Items) == 0 && in.UserID == nil {
		return fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return ErrInvalidOrderItem
		}
	}
	switch in.PaymentMethod {
	case constants.PaymentMethodPickup, constants.PaymentMethodOnline:
	default:
		return fmt.Errorf("%w: unknown payment method", ErrInvalidInput)
	}
	return nil
}

// PlaceOrder creates an order with price snapshots taken inside the
// transaction. For authenticated users the cart is cleared in the same
// transaction, so a failed order leaves the cart untouched.
func (s *OrderService) PlaceOrder(input PlaceOrderInput) (*models.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// Fold duplicate product lines before pricing.
	merged := make([]PlaceOrderItem, 0, len(input.Items))
	seen := make(map[uint]int, len(input.Items))
	for _, item := range input.Items {
		if idx, ok := seen[item.ProductID]; ok {
			merged[idx].Quantity += item.Quantity
			continue
		}
		seen[item.ProductID] = len(merged)
		merged = append(merged, item)
	}

	var order *models.Order
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		// Authenticated callers may omit items to order their saved cart.
		if len(merged) == 0 {
			lines, err := s.cartRepo.WithTx(tx).ListByUser(*input.UserID)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return fmt.Errorf("%w: cart is empty", ErrInvalidInput)
			}
			for _, line := range lines {
				merged = append(merged, PlaceOrderItem{
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
				})
			}
		}

		ids := make([]uint, 0, len(merged))
		for _, item := range merged {
			ids = append(ids, item.ProductID)
		}
		products, err := productRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*models.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		var totalCents int64
		orderItems := make([]models.OrderItem, 0, len(merged))
		for _, item := range merged {
			product, ok := byID[item.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
			}
			if !product.Available {
				return fmt.Errorf("%w: product %d", ErrProductNotAvailable, item.ProductID)
			}
			if product.PriceCents <= 0 {
				return fmt.Errorf("%w: product %d", ErrProductPriceInvalid, item.ProductID)
			}
			totalCents += product.PriceCents * int64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:         product.ID,
				ProductName:       product.Name,
				PriceCentsAtOrder: product.PriceCents,
				Quantity:          item.Quantity,
			})
		}

		newOrder := &models.Order{
			UserID:        input.UserID,
			CustomerName:  input.CustomerName,
			CustomerEmail: input.CustomerEmail,
			CustomerPhone: input.CustomerPhone,
			TotalCents:    totalCents,
			Status:        constants.OrderStatusPending,
			PaymentMethod: input.PaymentMethod,
			PaymentStatus: constants.PaymentStatusPending,
			Notes:         strings.TrimSpace(input.Notes),
			PickupDate:    input.PickupDate,
		}
		if err := s.orderRepo.WithTx(tx).Create(newOrder, orderItems); err != nil {
			return err
		}

		if input.UserID != nil {
			if err := s.cartRepo.WithTx(tx).ClearByUser(*input.UserID); err != nil {
				return err
			}
		}

		order = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"total_cents", order.TotalCents,
		"payment_method", order.PaymentMethod,
		"item_count", len(order.Items),
	)

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{
			OrderID: order.ID,
		}); err != nil {
			logger.Warnw("order_enqueue_confirmation_email_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
	}
	return order, nil
}

// GetOrder returns an order with items, or ErrOrderNotFound.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetUserOrder fetches an order and checks it belongs to the given user.
// Orders of other users surface as not found rather than forbidden.
func (s *OrderService) GetUserOrder(userID, orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetByStripeSessionID(sessionID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(filter)
}

func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !isKnownStatus(filter.Status) {
		return nil, 0, ErrOrderStatusInvalid
	}
	return s.orderRepo.ListAdmin(filter)
}
