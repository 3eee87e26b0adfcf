package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminStats always answers 200; sub-counts that failed are listed in
// data.failedCounts.
func (h *Handler) AdminStats(c *gin.Context) {
	stats := h.svc.Stats.AdminStats(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *Handler) DeleteAllData(c *gin.Context) {
	summary, err := h.svc.Admin.DeleteAllData(c.Request.Context())
	if err != nil {
		renderError(c, h.logger, err, "A critical error occurred while clearing data. Check server logs for details.")
		return
	}
	success(c, http.StatusOK, "All specified data has been cleared or deleted successfully.", summary)
}
