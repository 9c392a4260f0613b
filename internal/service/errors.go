package service

import "errors"

// Sentinel errors mapped to business codes by the HTTP handlers.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotAvailable = errors.New("product not available")
	ErrProductPriceInvalid = errors.New("product price must be greater than zero")
	ErrInvalidOrderItem    = errors.New("invalid order item")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderStatusInvalid  = errors.New("order status transition not allowed")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrPasswordTooWeak     = errors.New("password does not meet the policy")
	ErrPaymentNotEnabled   = errors.New("online payment is not configured")
	ErrUploadInvalid       = errors.New("invalid upload")

	ErrPaymentGatewayFailed    = errors.New("payment gateway request failed")
	ErrPaymentSignatureInvalid = errors.New("payment webhook signature invalid")
	ErrPaymentPayloadInvalid   = errors.New("payment webhook payload invalid")
)
