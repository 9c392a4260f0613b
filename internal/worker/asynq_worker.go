package worker

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/bakehouse-next/internal/logger"
	"github.com/bakehouse-next/internal/provider"
	"github.com/bakehouse-next/internal/queue"
)

// Consumer handles queued notification tasks using the shared container.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the task consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task handlers onto the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmationEmail, c.handleOrderConfirmationEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
}

func (c *Consumer) handleOrderConfirmationEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirmation_email_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirmation_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirmation_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_order_confirmation_email_skip_disabled", "order_id", order.ID)
		return nil
	}
	if err := c.EmailService.SendOrderConfirmation(order); err != nil {
		logger.Warnw("worker_order_confirmation_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_confirmation_email_sent", "order_id", order.ID)
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload")
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	if !c.EmailService.Enabled() {
		logger.Debugw("worker_order_status_email_skip_disabled", "order_id", order.ID)
		return nil
	}
	newStatus := payload.NewStatus
	if newStatus == "" {
		newStatus = order.Status
	}
	if err := c.EmailService.SendOrderStatusUpdate(order, payload.OldStatus, newStatus); err != nil {
		logger.Warnw("worker_order_status_email_send_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_status_email_sent", "order_id", order.ID, "new_status", newStatus)
	return nil
}
