// Package handler exposes project HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assembly_portal_backend/internal/projects/service"
	"assembly_portal_backend/internal/projects/transport"
	"assembly_portal_backend/platform/httpkit"
	"assembly_portal_backend/platform/validator"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid project id"
	msgInvalidElementID = "invalid element id"
)

// New creates a new projects handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func parseID(c *gin.Context, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		httpkit.Error(c, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}

// ListProjects lists the caller's projects (all projects for admins).
// GET /api/v1/projects
func (h *Handler) ListProjects(c *gin.Context) {
	var req transport.ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListProjects(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateProject creates a new open project.
// POST /api/v1/projects
func (h *Handler) CreateProject(c *gin.Context) {
	var req transport.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CreateProject(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetProject retrieves one project.
// GET /api/v1/projects/:id
func (h *Handler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetProject(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetProjectDetails retrieves a project with lines and pricing.
// GET /api/v1/projects/:id/details
func (h *Handler) GetProjectDetails(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.GetProjectDetails(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CalculateProjectCost prices a project's lines without discounts.
// GET /api/v1/projects/:id/cost
func (h *Handler) CalculateProjectCost(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CalculateProjectCost(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddElement adds element quantity to a project.
// POST /api/v1/projects/:id/elements
func (h *Handler) AddElement(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	var req transport.AddElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.AddElement(c.Request.Context(), identity, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// RemoveElement removes element quantity from a project. The quantity query
// parameter defaults to 1.
// DELETE /api/v1/projects/:id/elements/:elementId
func (h *Handler) RemoveElement(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	elementID, ok := parseID(c, "elementId", msgInvalidElementID)
	if !ok {
		return
	}

	var req transport.RemoveElementRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.svc.RemoveElement(c.Request.Context(), identity, id, elementID, req.Quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}

// CloseProject orders an open project, consuming stock.
// POST /api/v1/projects/:id/close
func (h *Handler) CloseProject(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.CloseProject(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ConfirmProject confirms an ordered project.
// POST /api/v1/admin/projects/:id/confirm
func (h *Handler) ConfirmProject(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	result, err := h.svc.ConfirmProject(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateProjectStock replays a project's lines against catalog stock.
// POST /api/v1/admin/projects/:id/stock
func (h *Handler) UpdateProjectStock(c *gin.Context) {
	id, ok := parseID(c, "id", msgInvalidID)
	if !ok {
		return
	}

	err := h.svc.UpdateProjectStock(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusNoContent, nil)
}
