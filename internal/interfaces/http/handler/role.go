package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/canteen/backend/internal/application/identity"
)

// RoleHandler manages roles and their permission grants.
type RoleHandler struct {
	service *appidentity.RoleService
}

func NewRoleHandler(service *appidentity.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// POST /api/v1/roles
func (h *RoleHandler) Create(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appidentity.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	role, err := h.service.CreateRole(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, role)
}

// GET /api/v1/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	role, err := h.service.GetRole(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}

// GET /api/v1/roles
func (h *RoleHandler) List(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	roles, err := h.service.ListRoles(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, roles)
}

// PUT /api/v1/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	role, err := h.service.UpdateRole(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, role)
}

// POST /api/v1/roles/:id/enable
func (h *RoleHandler) Enable(c *gin.Context) {
	h.transition(c, h.service.EnableRole)
}

// POST /api/v1/roles/:id/disable
func (h *RoleHandler) Disable(c *gin.Context) {
	h.transition(c, h.service.DisableRole)
}

// DELETE /api/v1/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteRole)
}

func (h *RoleHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), tid, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}
