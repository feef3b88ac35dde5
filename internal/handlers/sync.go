package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerSync runs one reconciliation cycle on demand and reports either
// the applied changes or the failure reason.
func (h *Handlers) TriggerSync(c *gin.Context) {
	changes, err := h.syncService.RunOnce(c.Request.Context())
	if err != nil {
		h.logger.Error("manual sync failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"succeeded": false,
			"reason":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"succeeded":    true,
		"change_count": len(changes),
		"changes":      changes,
	})
}
