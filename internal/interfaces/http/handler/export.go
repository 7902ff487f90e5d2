package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appstock "github.com/canteen/backend/internal/application/stock"
)

// ExportHandler streams stock ledgers and summaries as xlsx workbooks.
type ExportHandler struct {
	service *appstock.ExportService
}

func NewExportHandler(service *appstock.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// GET /api/v1/stock/export/ledger?product_id=&year=&month=
func (h *ExportHandler) MonthLedger(c *gin.Context) {
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
	result, err := h.service.ExportMonthLedger(c.Request.Context(), tid, productID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	writeWorkbook(c, result)
}

// GET /api/v1/stock/export/summary?year=&month=
func (h *ExportHandler) MonthSummary(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	year, month, ok := queryYearMonth(c)
	if !ok {
		return
	}
	result, err := h.service.ExportMonthSummary(c.Request.Context(), tid, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	writeWorkbook(c, result)
}

func writeWorkbook(c *gin.Context, result *appstock.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, appstock.ContentType, result.Content)
}
