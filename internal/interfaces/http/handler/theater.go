package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/canteen/backend/internal/application/identity"
	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// TheaterHandler manages theaters. These endpoints are platform scoped
// and guarded by theater:* permissions.
type TheaterHandler struct {
	service *appidentity.TheaterService
}

func NewTheaterHandler(service *appidentity.TheaterService) *TheaterHandler {
	return &TheaterHandler{service: service}
}

// POST /api/v1/theaters
func (h *TheaterHandler) Create(c *gin.Context) {
	var req appidentity.CreateTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	theater, err := h.service.CreateTheater(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, theater)
}

// GET /api/v1/theaters/:id
func (h *TheaterHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	theater, err := h.service.GetTheater(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, theater)
}

// GET /api/v1/theaters
func (h *TheaterHandler) List(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondBindingError(c, err)
		return
	}
	list.Normalize()

	filter := identity.TheaterFilter{
		Keyword:  list.Search,
		Page:     list.Page,
		PageSize: list.PageSize,
	}
	if status := c.Query("status"); status != "" {
		s := identity.TheaterStatus(status)
		filter.Status = &s
	}

	theaters, total, err := h.service.ListTheaters(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, theaters, total, list.Page, list.PageSize)
}

// PUT /api/v1/theaters/:id
func (h *TheaterHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.UpdateTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	theater, err := h.service.UpdateTheater(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, theater)
}

// PUT /api/v1/theaters/:id/config
func (h *TheaterHandler) UpdateConfig(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appidentity.UpdateTheaterConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	theater, err := h.service.UpdateTheaterConfig(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, theater)
}

// POST /api/v1/theaters/:id/activate
func (h *TheaterHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateTheater)
}

// POST /api/v1/theaters/:id/deactivate
func (h *TheaterHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateTheater)
}

// POST /api/v1/theaters/:id/suspend
func (h *TheaterHandler) Suspend(c *gin.Context) {
	h.transition(c, h.service.SuspendTheater)
}

// DELETE /api/v1/theaters/:id
func (h *TheaterHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteTheater)
}

func (h *TheaterHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID) error) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}
