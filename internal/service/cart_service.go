package service

import (
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/repository"
)

// CartItemDetail is one cart line joined with live product data.
type CartItemDetail struct {
	ProductID  uint            `json:"product_id"`
	Quantity   int             `json:"quantity"`
	PriceCents int64           `json:"price_cents"`
	Available  bool            `json:"available"`
	Product    *models.Product `json:"product,omitempty"`
}

// AddCartItemInput is the add-to-cart input.
type AddCartItemInput struct {
	UserID    uint
	ProductID uint
	Quantity  int
}

// MergeCartInput carries a guest cart to fold into the persisted cart at
// login.
type MergeCartInput struct {
	UserID uint
	Items  []AddCartItemInput
}

// CartService handles the persisted cart of authenticated users.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByUser returns the cart with live product data. Lines whose product
// vanished or went unavailable are kept but flagged, so the client can show
// them instead of silently losing them.
func (s *CartService) ListByUser(userID uint) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}

		detail := CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if product != nil {
			detail.PriceCents = product.PriceCents
			detail.Available = product.Available
			detail.Product = product
		}
		details = append(details, detail)
	}
	return details, nil
}

// AddItem validates the product then increments the line atomically.
// Adding a twice and b once from racing requests always ends at a+b.
func (s *CartService) AddItem(input AddCartItemInput) error {
	if input.UserID == 0 || input.ProductID == 0 || input.Quantity < 1 {
		return ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.Available {
		return ErrProductNotAvailable
	}

	item := &models.CartItem{
		UserID:    input.UserID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
	}
	return s.cartRepo.AddQuantity(item)
}

// SetQuantity overwrites one line's quantity; 0 removes the line.
func (s *CartService) SetQuantity(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 || quantity < 0 {
		return ErrInvalidInput
	}
	if quantity == 0 {
		return s.cartRepo.DeleteByUserAndProduct(userID, productID)
	}
	item, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	return s.cartRepo.SetQuantity(userID, productID, quantity)
}

// RemoveItem deletes one line. Removing an absent line succeeds.
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidInput
	}
	return s.cartRepo.DeleteByUserAndProduct(userID, productID)
}

// Clear empties the cart.
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	return s.cartRepo.ClearByUser(userID)
}

// Merge folds a guest cart into the persisted cart using the same atomic
// increment as AddItem, so merging is commutative with concurrent adds.
// Unknown or unavailable products are skipped rather than failing the
// whole merge.
func (s *CartService) Merge(input MergeCartInput) error {
	if input.UserID == 0 {
		return ErrInvalidInput
	}
	for _, line := range input.Items {
		if line.ProductID == 0 || line.Quantity < 1 {
			continue
		}
		err := s.AddItem(AddCartItemInput{
			UserID:    input.UserID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		if err != nil && err != ErrProductNotAvailable {
			return err
		}
	}
	return nil
}
