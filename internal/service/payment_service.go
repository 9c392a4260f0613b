package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bakehouse-next/internal/config"
	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/payment/stripe"
	"github.com/bakehouse-next/internal/repository"
)

// PaymentService drives Stripe Checkout sessions and reconciles webhook
// events back onto orders. Payment status is only ever advanced from
// verified webhook payloads, never from redirect query parameters.
type PaymentService struct {
	orderRepo repository.OrderRepository
	orderSvc  *OrderService
	stripeCfg *stripe.Config
}

func NewPaymentService(orderRepo repository.OrderRepository, orderSvc *OrderService, cfg config.StripeConfig) *PaymentService {
	stripeCfg := &stripe.Config{
		SecretKey:               cfg.SecretKey,
		WebhookSecret:           cfg.WebhookSecret,
		Currency:                cfg.Currency,
		SuccessURL:              cfg.SuccessURL,
		CancelURL:               cfg.CancelURL,
		APIBaseURL:              cfg.APIBaseURL,
		TimeoutMS:               cfg.TimeoutMS,
		WebhookToleranceSeconds: cfg.WebhookToleranceSeconds,
	}
	stripeCfg.Normalize()
	return &PaymentService{
		orderRepo: orderRepo,
		orderSvc:  orderSvc,
		stripeCfg: stripeCfg,
	}
}

// Enabled reports whether Stripe is configured for online checkout.
func (s *PaymentService) Enabled() bool {
	return stripe.ValidateConfig(s.stripeCfg) == nil
}

// timeNow is stubbed in tests for signature tolerance checks.
var timeNow = time.Now

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// CreateCheckoutResult is the outcome of starting an online checkout.
type CreateCheckoutResult struct {
	Order      *models.Order
	SessionID  string
	SessionURL string
}

// CreateCheckoutSession places a pending online order and opens a Stripe
// Checkout session for it. If Stripe rejects the request the pending order
// is kept so the attempt remains visible to admins.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, input PlaceOrderInput) (*CreateCheckoutResult, error) {
	if !s.Enabled() {
		return nil, ErrPaymentNotEnabled
	}
	input.PaymentMethod = constants.PaymentMethodOnline

	order, err := s.orderSvc.PlaceOrder(input)
	if err != nil {
		return nil, err
	}
	log := paymentLogger("order_id", order.ID, "total_cents", order.TotalCents)

	items := make([]stripe.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, stripe.LineItem{
			Name:           item.ProductName,
			UnitPriceCents: item.PriceCentsAtOrder,
			Quantity:       item.Quantity,
		})
	}

	if ctx == nil {
		ctx = context.Background()
	}
	session, err := stripe.CreateCheckoutSession(ctx, s.stripeCfg, stripe.CreateSessionInput{
		OrderID:  order.ID,
		Items:    items,
		Customer: order.CustomerEmail,
	})
	if err != nil {
		// The pending order stays on record for manual follow-up.
		log.Warnw("payment_session_create_failed", "error", err)
		switch {
		case errors.Is(err, stripe.ErrConfigInvalid):
			return nil, ErrPaymentNotEnabled
		default:
			return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
		}
	}

	updates := map[string]interface{}{
		"stripe_session_id": session.SessionID,
	}
	if session.PaymentIntentID != "" {
		updates["stripe_payment_intent_id"] = session.PaymentIntentID
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		log.Errorw("payment_session_persist_failed",
			"session_id", session.SessionID,
			"error", err,
		)
		return nil, err
	}
	order.StripeSessionID = session.SessionID
	order.StripePaymentIntentID = session.PaymentIntentID

	log.Infow("payment_session_created", "session_id", session.SessionID)
	return &CreateCheckoutResult{
		Order:      order,
		SessionID:  session.SessionID,
		SessionURL: session.URL,
	}, nil
}

// StripeWebhookInput is the raw inbound webhook request.
type StripeWebhookInput struct {
	Headers map[string]string
	Body    []byte
}

// HandleStripeWebhook verifies and applies one Stripe event. Redelivered
// events are acknowledged without changing already-settled orders. The
// returned event type is for access logging only.
func (s *PaymentService) HandleStripeWebhook(input StripeWebhookInput) (string, error) {
	event, err := stripe.VerifyAndParseWebhook(s.stripeCfg, input.Headers, input.Body, timeNow())
	if err != nil {
		paymentLogger("body_size", len(input.Body)).Warnw("payment_webhook_verify_failed", "error", err)
		switch {
		case errors.Is(err, stripe.ErrConfigInvalid):
			return "", ErrPaymentNotEnabled
		case errors.Is(err, stripe.ErrSignatureInvalid):
			return "", ErrPaymentSignatureInvalid
		default:
			return "", ErrPaymentPayloadInvalid
		}
	}

	log := paymentLogger(
		"event_id", event.EventID,
		"event_type", event.EventType,
		"session_id", event.SessionID,
		"order_id", event.OrderID,
	)

	switch event.EventType {
	case constants.StripeEventCheckoutCompleted:
		return event.EventType, s.applyCheckoutCompleted(event, log)
	case constants.StripeEventCheckoutExpired:
		return event.EventType, s.applyCheckoutExpired(event, log)
	case constants.StripeEventPaymentIntentFailed:
		log.Infow("payment_webhook_intent_failed",
			"payment_intent_id", event.PaymentIntentID,
			"amount", stripe.AmountString(event.AmountMinor, event.Currency),
		)
		return event.EventType, nil
	default:
		log.Debugw("payment_webhook_event_ignored")
		return event.EventType, nil
	}
}

func (s *PaymentService) applyCheckoutCompleted(event *stripe.WebhookResult, log *zap.SugaredLogger) error {
	order, err := s.lookupWebhookOrder(event)
	if err != nil {
		return err
	}
	if order == nil {
		// Unknown session, acknowledge so Stripe stops retrying.
		log.Warnw("payment_webhook_order_not_found")
		return nil
	}
	if order.PaymentStatus == constants.PaymentStatusPaid {
		log.Infow("payment_webhook_already_paid", "order_id", order.ID)
		return nil
	}

	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
	}
	if event.SessionID != "" && order.StripeSessionID == "" {
		updates["stripe_session_id"] = event.SessionID
	}
	if event.PaymentIntentID != "" {
		updates["stripe_payment_intent_id"] = event.PaymentIntentID
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		log.Errorw("payment_webhook_update_failed", "order_id", order.ID, "error", err)
		return err
	}
	log.Infow("payment_webhook_order_paid",
		"order_id", order.ID,
		"payment_intent_id", event.PaymentIntentID,
		"amount", stripe.AmountString(event.AmountMinor, event.Currency),
	)
	return nil
}

func (s *PaymentService) applyCheckoutExpired(event *stripe.WebhookResult, log *zap.SugaredLogger) error {
	order, err := s.lookupWebhookOrder(event)
	if err != nil {
		return err
	}
	if order == nil {
		log.Warnw("payment_webhook_order_not_found")
		return nil
	}
	if order.PaymentStatus != constants.PaymentStatusPending {
		log.Infow("payment_webhook_expiry_ignored",
			"order_id", order.ID,
			"payment_status", order.PaymentStatus,
		)
		return nil
	}
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{
		"payment_status": constants.PaymentStatusFailed,
	}); err != nil {
		log.Errorw("payment_webhook_update_failed", "order_id", order.ID, "error", err)
		return err
	}
	log.Infow("payment_webhook_order_expired", "order_id", order.ID)
	return nil
}

// lookupWebhookOrder resolves the order an event refers to, preferring the
// session id and falling back to the metadata order id.
func (s *PaymentService) lookupWebhookOrder(event *stripe.WebhookResult) (*models.Order, error) {
	if sessionID := strings.TrimSpace(event.SessionID); sessionID != "" {
		order, err := s.orderRepo.GetByStripeSessionID(sessionID)
		if err != nil {
			return nil, err
		}
		if order != nil {
			return order, nil
		}
	}
	if event.OrderID != 0 {
		return s.orderRepo.GetByID(event.OrderID)
	}
	return nil, nil
}
