// Package handler exposes promotion HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assembly_portal_backend/internal/promotions/service"
	"assembly_portal_backend/internal/promotions/transport"
	"assembly_portal_backend/platform/httpkit"
	"assembly_portal_backend/platform/validator"
)

// Handler handles HTTP requests for promotions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid promotion id"
)

// New creates a new promotions handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListActivePromotions lists promotions active right now.
// GET /api/v1/promotions/active
func (h *Handler) ListActivePromotions(c *gin.Context) {
	result, err := h.svc.ListActivePromotions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListPromotions lists every promotion.
// GET /api/v1/admin/promotions
func (h *Handler) ListPromotions(c *gin.Context) {
	result, err := h.svc.ListPromotions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreatePromotion creates a promotion.
// POST /api/v1/admin/promotions
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req transport.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreatePromotion(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// DeletePromotion deletes a promotion.
// DELETE /api/v1/admin/promotions/:id
func (h *Handler) DeletePromotion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeletePromotion(c.Request.Context(), id)) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}
