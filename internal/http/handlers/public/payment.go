package public

import (
	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/constants"
	"github.com/bakehouse-next/internal/http/response"
)

// CreateCheckoutSession places a pending online order and returns the
// Stripe Checkout URL to redirect the customer to.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input, err := req.toInput(getOptionalUserID(c), constants.PaymentMethodOnline)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid pickup date", nil)
		return
	}
	result, err := h.PaymentService.CreateCheckoutSession(c.Request.Context(), input)
	if err != nil {
		rules := concatMappedHandlerErrors(orderErrorRules, paymentErrorRules)
		respondWithMappedError(c, err, rules, response.CodeInternal, "failed to start checkout")
		return
	}
	response.Success(c, gin.H{
		"order_id":    result.Order.ID,
		"session_id":  result.SessionID,
		"session_url": result.SessionURL,
	})
}
