package constants

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Payment method constants
const (
	PaymentMethodOnline = "online"
	PaymentMethodPickup = "pickup"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// User role constants
const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
)

// Stripe webhook event types handled by the reconciliation path
const (
	StripeEventCheckoutCompleted   = "checkout.session.completed"
	StripeEventCheckoutExpired     = "checkout.session.expired"
	StripeEventPaymentIntentFailed = "payment_intent.payment_failed"
)

// Queue names
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Async task types
const (
	TaskOrderStatusEmail       = "email:order_status"
	TaskOrderConfirmationEmail = "email:order_confirmation"
)

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
