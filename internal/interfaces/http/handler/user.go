package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/canteen/backend/internal/application/identity"
	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// UserHandler manages staff accounts within the caller's theater.
type UserHandler struct {
	service *appidentity.UserService
}

func NewUserHandler(service *appidentity.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondBindingError(c, err)
		return
	}
	list.Normalize()

	filter := identity.UserFilter{
		Keyword:  list.Search,
		Page:     list.Page,
		PageSize: list.PageSize,
	}
	if status := c.Query("status"); status != "" {
		s := identity.UserStatus(status)
		filter.Status = &s
	}
	if roleParam := c.Query("role_id"); roleParam != "" {
		roleID, err := uuid.Parse(roleParam)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		filter.RoleID = &roleID
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, users, total, list.Page, list.PageSize)
}

// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// POST /api/v1/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateUser)
}

// POST /api/v1/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateUser)
}

// POST /api/v1/users/:id/unlock
func (h *UserHandler) Unlock(c *gin.Context) {
	h.transition(c, h.service.UnlockUser)
}

// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteUser)
}

// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), tid, id, req); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"reset": true})
}

// PUT /api/v1/users/:id/roles
func (h *UserHandler) AssignRoles(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := h.service.AssignRoles(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

func (h *UserHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error) {
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
