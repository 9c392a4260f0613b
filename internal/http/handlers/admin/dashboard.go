package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/bakehouse-next/internal/http/response"
)

// AdminDashboard returns order counts per status, paid revenue and
// catalog totals.
func (h *Handler) AdminDashboard(c *gin.Context) {
	overview, err := h.DashboardService.GetOverview()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load dashboard", err)
		return
	}
	response.Success(c, overview)
}
