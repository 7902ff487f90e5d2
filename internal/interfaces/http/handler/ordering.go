package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/canteen/backend/internal/application/ordering"
	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// TableHandler manages dining tables and their QR codes.
type TableHandler struct {
	service *appordering.TableService
}

func NewTableHandler(service *appordering.TableService) *TableHandler {
	return &TableHandler{service: service}
}

// POST /api/v1/tables
func (h *TableHandler) Create(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appordering.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	table, err := h.service.CreateTable(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, table)
}

// GET /api/v1/tables/:id
func (h *TableHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	table, err := h.service.GetTable(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, table)
}

// GET /api/v1/tables
func (h *TableHandler) List(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	tables, err := h.service.ListTables(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tables)
}

// PUT /api/v1/tables/:id
func (h *TableHandler) Update(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appordering.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	table, err := h.service.UpdateTable(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, table)
}

// POST /api/v1/tables/:id/rotate-token
func (h *TableHandler) RotateToken(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	table, err := h.service.RotateToken(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, table)
}

// GET /api/v1/tables/:id/qrcode
// Returns the printable QR code as a PNG.
func (h *TableHandler) QRCode(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	png, err := h.service.RenderQRCode(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(200, "image/png", png)
}

// POST /api/v1/tables/:id/activate
func (h *TableHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateTable)
}

// POST /api/v1/tables/:id/deactivate
func (h *TableHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateTable)
}

// DELETE /api/v1/tables/:id
func (h *TableHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteTable)
}

func (h *TableHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error) {
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

// OrderHandler exposes order placement and the staff lifecycle.
type OrderHandler struct {
	service *appordering.OrderService
}

func NewOrderHandler(service *appordering.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// PlacePublicOrder godoc
// @ID           placePublicOrder
//
//	@Summary		Place a table order
//	@Description	Customer checkout from a scanned table; the QR token authorizes the request
//	@Tags			public
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ordering.PlaceOrderRequest	true	"Order payload"
//	@Success		201		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Router			/public/orders [post]
func (h *OrderHandler) PlacePublicOrder(c *gin.Context) {
	var req appordering.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := h.service.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// POST /api/v1/orders
// Counter order placed by staff for a known table.
func (h *OrderHandler) PlaceStaffOrder(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appordering.StaffOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := h.service.PlaceStaffOrder(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// GET /api/v1/orders/by-number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	order, err := h.service.GetOrderByNumber(c.Request.Context(), tid, c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
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

	filter := ordering.OrderFilter{
		Page:     list.Page,
		PageSize: list.PageSize,
	}
	if status := c.Query("status"); status != "" {
		s := ordering.OrderStatus(status)
		filter.Status = &s
	}
	if tableParam := c.Query("table_id"); tableParam != "" {
		tableID, err := uuid.Parse(tableParam)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		filter.TableID = &tableID
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		filter.To = &t
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, orders, total, list.Page, list.PageSize)
}

// GET /api/v1/tables/:id/open-orders
func (h *OrderHandler) ListOpenByTable(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	orders, err := h.service.ListOpenByTable(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, orders)
}

// POST /api/v1/orders/:id/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.service.ConfirmOrder)
}

// POST /api/v1/orders/:id/prepare
func (h *OrderHandler) StartPreparing(c *gin.Context) {
	h.transition(c, h.service.StartPreparing)
}

// POST /api/v1/orders/:id/deliver
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.service.MarkDelivered)
}

// Pay godoc
// @ID           payOrder
//
//	@Summary		Mark an order as paid
//	@Description	Record a cash or UPI payment against an order
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Order ID"	format(uuid)
//	@Param			request	body		ordering.PayOrderRequest	true	"Payment method"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		422		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appordering.PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := h.service.PayOrder(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// POST /api/v1/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.CompleteOrder)
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appordering.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := h.service.CancelOrder(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

func (h *OrderHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) (*appordering.OrderResponse, error)) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	order, err := op(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
