package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetEndpointHistory returns the ordered status transitions for one
// endpoint, optionally bounded by from/to (RFC 3339) and limit.
func (h *Handlers) GetEndpointHistory(c *gin.Context) {
	endpoint, ok := h.findEndpoint(c)
	if !ok {
		return
	}

	var from, to time.Time
	var err error

	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", "invalid from timestamp"))
			return
		}
	}

	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", "invalid to timestamp"))
			return
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", "invalid limit"))
			return
		}
	}

	transitions, err := h.transitionStore.ListByEndpoint(c.Request.Context(), endpoint.ID, from, to, limit)
	if err != nil {
		h.logger.Error("failed to list transitions", "endpoint_id", endpoint.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to list history"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("history listed", transitions))
}
