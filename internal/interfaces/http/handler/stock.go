package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appstock "github.com/canteen/backend/internal/application/stock"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// StockHandler manages monthly stock ledgers.
type StockHandler struct {
	service *appstock.StockService
}

func NewStockHandler(service *appstock.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// queryYearMonth parses the year and month query parameters.
func queryYearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid year parameter"))
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid month parameter"))
		return 0, 0, false
	}
	return year, month, true
}

func queryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid "+name+" parameter"))
		return uuid.Nil, false
	}
	return id, true
}

// POST /api/v1/stock/entries
func (h *StockHandler) AddEntry(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appstock.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	doc, err := h.service.AddEntry(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, doc)
}

// GET /api/v1/stock/months?product_id=&year=&month=
func (h *StockHandler) GetMonth(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	productID, ok := queryUUID(c, "product_id")
	if !ok {
		return
	}
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}
	doc, err := h.service.GetMonth(c.Request.Context(), tid, productID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// GET /api/v1/stock/months/:id
func (h *StockHandler) GetDocument(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	doc, err := h.service.GetDocument(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// PUT /api/v1/stock/months/:id/entries/:entryId
func (h *StockHandler) UpdateEntry(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "entryId")
	if !ok {
		return
	}
	var req appstock.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	doc, err := h.service.UpdateEntry(c.Request.Context(), tid, docID, entryID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// DELETE /api/v1/stock/months/:id/entries/:entryId
func (h *StockHandler) RemoveEntry(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "entryId")
	if !ok {
		return
	}
	doc, err := h.service.RemoveEntry(c.Request.Context(), tid, docID, entryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, doc)
}

// DELETE /api/v1/stock/months/:id
func (h *StockHandler) DeleteMonth(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	docID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteMonth(c.Request.Context(), tid, docID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// GET /api/v1/stock/summary?year=&month=
func (h *StockHandler) MonthSummary(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondBindingError(c, err)
		return
	}
	list.Normalize()

	summary, err := h.service.MonthSummary(c.Request.Context(), tid, year, month, shared.Filter{
		Page:     list.Page,
		PageSize: list.PageSize,
		Search:   list.Search,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, summary, summary.Total, list.Page, list.PageSize)
}

// GET /api/v1/stock/expiring?as_of=2026-08-31
func (h *StockHandler) ExpiringLots(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	asOf := time.Now().UTC()
	if param := c.Query("as_of"); param != "" {
		parsed, err := time.Parse("2006-01-02", param)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		asOf = parsed
	}
	lots, err := h.service.ExpiringLots(c.Request.Context(), tid, asOf)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lots)
}
