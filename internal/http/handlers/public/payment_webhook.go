package public

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/service"
)

// StripeWebhook receives Stripe events. Unlike the rest of the API it
// speaks plain HTTP statuses: Stripe retries anything that is not 2xx, so
// verification failures return 400 and everything verified returns 200
// even when no order matched.
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	eventType, err := h.PaymentService.HandleStripeWebhook(service.StripeWebhookInput{
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		log.Warnw("stripe_webhook_handle_failed",
			"event_type", eventType,
			"client_ip", c.ClientIP(),
			"error", err,
		)
		switch {
		case errors.Is(err, service.ErrPaymentSignatureInvalid),
			errors.Is(err, service.ErrPaymentPayloadInvalid),
			errors.Is(err, service.ErrPaymentNotEnabled):
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
		default:
			// Database errors are retryable; let Stripe redeliver.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		}
		return
	}

	log.Infow("stripe_webhook_processed", "event_type", eventType)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
