// Package handler exposes catalog HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assembly_portal_backend/internal/catalog/service"
	"assembly_portal_backend/internal/catalog/transport"
	"assembly_portal_backend/platform/httpkit"
	"assembly_portal_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid element id"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func parseElementID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

// ListElements retrieves catalog elements.
// GET /api/v1/catalog/elements
func (h *Handler) ListElements(c *gin.Context) {
	var req transport.ListElementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListElements(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetElementByID retrieves one element.
// GET /api/v1/catalog/elements/:id
func (h *Handler) GetElementByID(c *gin.Context) {
	id, ok := parseElementID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetElementByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateElement creates a new element.
// POST /api/v1/admin/catalog/elements
func (h *Handler) CreateElement(c *gin.Context) {
	var req transport.CreateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateElement(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateElement updates an element.
// PUT /api/v1/admin/catalog/elements/:id
func (h *Handler) UpdateElement(c *gin.Context) {
	id, ok := parseElementID(c)
	if !ok {
		return
	}

	var req transport.UpdateElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateElement(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteElement deletes an element.
// DELETE /api/v1/admin/catalog/elements/:id
func (h *Handler) DeleteElement(c *gin.Context) {
	id, ok := parseElementID(c)
	if !ok {
		return
	}

	err := h.svc.DeleteElement(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}
