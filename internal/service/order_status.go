package service

import (
	"strings"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/models"
	"github.com/bakehouse-next/internal/queue"
)

// allowedTransitions is the fulfillment state machine. Completed and
// cancelled are terminal; cancellation is reachable from every
// non-terminal state.
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusReady:     true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusReady: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCancelled: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isKnownStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusReady,
		constants.OrderStatusCompleted,
		constants.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// UpdateOrderStatus applies an admin status change. Setting the current
// status again is an idempotent no-op; illegal transitions, including any
// move out of a terminal state, are rejected.
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if !isKnownStatus(target) {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	oldStatus := order.Status
	if err := s.orderRepo.UpdateStatus(order.ID, target); err != nil {
		return nil, err
	}
	order.Status = target
	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"old_status", oldStatus,
		"new_status", target,
	)

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: target,
		}); err != nil {
			logger.Warnw("order_enqueue_status_email_failed",
				"order_id", order.ID,
				"new_status", target,
				"error", err,
			)
		}
	}
	return order, nil
}
