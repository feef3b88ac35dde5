package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"NetWatch/internal/models"
	"NetWatch/pkg/validator"
)

type endpointRequest struct {
	Name       string  `json:"name" binding:"required"`
	Address    string  `json:"address" binding:"required"`
	Port       *int    `json:"port"`
	CheckKind  string  `json:"check_kind" binding:"required"`
	Keyword    string  `json:"keyword"`
	CategoryID *string `json:"category_id"`
	Monitored  *bool   `json:"monitored"`
}

// CreateEndpoint adds a manually curated endpoint. The status field is
// engine-owned and starts as unknown.
func (h *Handlers) CreateEndpoint(c *gin.Context) {
	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", err.Error()))
		return
	}

	if msg, ok := h.validateEndpointRequest(&req); !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", msg))
		return
	}

	monitored := true
	if req.Monitored != nil {
		monitored = *req.Monitored
	}

	endpoint := &models.Endpoint{
		Name:       req.Name,
		Address:    req.Address,
		Port:       req.Port,
		CheckKind:  models.CheckKind(req.CheckKind),
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		Status:     models.StatusUnknown,
		Monitored:  monitored,
		Origin:     models.OriginManual,
	}

	if err := h.endpointStore.Create(c.Request.Context(), endpoint); err != nil {
		h.logger.Error("failed to create endpoint", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to create endpoint"))
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse("endpoint created", endpoint))
}

func (h *Handlers) ListEndpoints(c *gin.Context) {
	endpoints, err := h.endpointStore.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list endpoints", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to list endpoints"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("endpoints listed", endpoints))
}

func (h *Handlers) GetEndpoint(c *gin.Context) {
	endpoint, ok := h.findEndpoint(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("endpoint found", endpoint))
}

// UpdateEndpoint edits the configurable fields. Origin and status stay
// as stored: provenance is set at creation and status belongs to the
// health engine.
func (h *Handlers) UpdateEndpoint(c *gin.Context) {
	endpoint, ok := h.findEndpoint(c)
	if !ok {
		return
	}

	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", err.Error()))
		return
	}

	if msg, ok := h.validateEndpointRequest(&req); !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", msg))
		return
	}

	endpoint.Name = req.Name
	endpoint.Address = req.Address
	endpoint.Port = req.Port
	endpoint.CheckKind = models.CheckKind(req.CheckKind)
	endpoint.Keyword = req.Keyword
	endpoint.CategoryID = req.CategoryID
	if req.Monitored != nil {
		endpoint.Monitored = *req.Monitored
	}

	if err := h.endpointStore.Update(c.Request.Context(), endpoint); err != nil {
		h.logger.Error("failed to update endpoint", "endpoint_id", endpoint.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to update endpoint"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("endpoint updated", endpoint))
}

func (h *Handlers) DeleteEndpoint(c *gin.Context) {
	endpoint, ok := h.findEndpoint(c)
	if !ok {
		return
	}

	if err := h.endpointStore.Delete(c.Request.Context(), endpoint.ID); err != nil {
		h.logger.Error("failed to delete endpoint", "endpoint_id", endpoint.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to delete endpoint"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("endpoint deleted", nil))
}

type monitoringRequest struct {
	Monitored *bool `json:"monitored" binding:"required"`
}

// SetMonitoring pauses or resumes checking for one endpoint.
func (h *Handlers) SetMonitoring(c *gin.Context) {
	endpoint, ok := h.findEndpoint(c)
	if !ok {
		return
	}

	var req monitoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", err.Error()))
		return
	}

	endpoint.Monitored = *req.Monitored
	if err := h.endpointStore.Update(c.Request.Context(), endpoint); err != nil {
		h.logger.Error("failed to update monitoring flag", "endpoint_id", endpoint.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to update endpoint"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("monitoring updated", endpoint))
}

func (h *Handlers) findEndpoint(c *gin.Context) (*models.Endpoint, bool) {
	id := c.Param("id")

	endpoint, err := h.endpointStore.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get endpoint", "endpoint_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to get endpoint"))
		return nil, false
	}

	if endpoint == nil {
		c.JSON(http.StatusNotFound, ErrorResponse("not_found", "endpoint not found"))
		return nil, false
	}

	return endpoint, true
}

func (h *Handlers) validateEndpointRequest(req *endpointRequest) (string, bool) {
	if !validator.ValidateCheckKind(req.CheckKind) {
		return "invalid check kind: " + req.CheckKind, false
	}

	if !validator.ValidateAddress(req.Address) {
		return "invalid address: " + req.Address, false
	}

	if !validator.ValidatePort(req.Port) {
		return "invalid port", false
	}

	if models.CheckKind(req.CheckKind) == models.CheckKindHTTPKeyword && req.Keyword == "" {
		return "keyword is required for http_keyword checks", false
	}

	return "", true
}
