package public

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handlershared "github.com/bakehouse-next/internal/http/handlers/shared"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// getOptionalUserID returns the user id when auth middleware attached one,
// without writing a response when it did not.
func getOptionalUserID(c *gin.Context) *uint {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	if id, ok := value.(uint); ok && id != 0 {
		return &id
	}
	return nil
}
