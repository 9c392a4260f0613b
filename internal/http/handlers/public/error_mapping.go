package public

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
	"github.com/bakehouse-next/internal/service"
)

// mappedHandlerError maps a business error onto an API error response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid order input"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "invalid order item"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, msg: "product price invalid"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid cart input"},
	{target: service.ErrInvalidOrderItem, code: response.CodeBadRequest, msg: "invalid cart item"},
	{target: service.ErrProductNotFound, code: response.CodeBadRequest, msg: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "product not available"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, msg: "invalid input"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, msg: "email already registered"},
	{target: service.ErrPasswordTooWeak, code: response.CodeBadRequest, msg: "password does not meet the policy"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "invalid email or password"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotEnabled, code: response.CodeBadRequest, msg: "online payment is not available"},
	{target: service.ErrPaymentGatewayFailed, code: response.CodeUpstream, msg: "payment provider request failed"},
}
