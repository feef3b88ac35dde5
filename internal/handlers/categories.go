package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handlers) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("invalid_request", err.Error()))
		return
	}

	category, err := h.categoryStore.Upsert(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to create category", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to create category"))
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse("category created", category))
}

func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.categoryStore.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to list categories"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("categories listed", categories))
}

func (h *Handlers) GetCategory(c *gin.Context) {
	id := c.Param("id")

	category, err := h.categoryStore.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get category", "category_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to get category"))
		return
	}

	if category == nil {
		c.JSON(http.StatusNotFound, ErrorResponse("not_found", "category not found"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("category found", category))
}

// DeleteCategory removes a grouping. Endpoints referencing it survive
// with a nulled category.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	if err := h.categoryStore.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("failed to delete category", "category_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse("store_error", "failed to delete category"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse("category deleted", nil))
}
