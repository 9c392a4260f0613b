package queue

import (
	"encoding/json"

	"github.com/bakehouse-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusEmail notifies a customer of an order status change.
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskOrderConfirmationEmail confirms a freshly placed order.
	TaskOrderConfirmationEmail = constants.TaskOrderConfirmationEmail
)

// OrderStatusEmailPayload is the status notification payload.
type OrderStatusEmailPayload struct {
	OrderID   uint   `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderConfirmationEmailPayload is the order confirmation payload.
type OrderConfirmationEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderStatusEmailTask builds a status notification task.
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewOrderConfirmationEmailTask builds an order confirmation task.
func NewOrderConfirmationEmailTask(payload OrderConfirmationEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmationEmail, body), nil
}
