package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/shared"
)

const ledgerSheet = "Ledger"

// ExportResult is a generated spreadsheet ready to be sent as a download
type ExportResult struct {
	FileName string
	Content  []byte
}

// ContentType is the MIME type of the generated spreadsheets
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders monthly stock ledgers as Excel workbooks
type ExportService struct {
	stocks *StockService
	logger *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(stocks *StockService, logger *zap.Logger) *ExportService {
	return &ExportService{stocks: stocks, logger: logger}
}

// ExportMonthLedger renders one product's monthly ledger: opening balance,
// one row per entry, totals, and the closing balance
func (s *ExportService) ExportMonthLedger(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*ExportResult, error) {
	doc, err := s.stocks.getOrCreateMonth(ctx, theaterID, productID, year, month)
	if err != nil {
		return nil, err
	}
	product, err := s.stocks.productRepo.FindByIDForTheater(ctx, theaterID, productID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("rename export sheet: %w", err)
	}

	setCell := func(cell string, value interface{}) {
		// the only failure mode is a malformed cell reference
		_ = f.SetCellValue(ledgerSheet, cell, value)
	}

	setCell("A1", fmt.Sprintf("Stock ledger %s (%s) %04d-%02d", product.Name, product.Code, year, month))
	setCell("A2", "Opening balance")
	setCell("B2", doc.OldStock.InexactFloat64())

	headers := []string{"Date", "Type", "Received", "Sales", "Expired", "Damaged", "Balance", "Batch", "Expiry", "Note"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		setCell(cell, h)
	}

	row := 5
	for i := range doc.Entries {
		e := &doc.Entries[i]
		setCell(fmt.Sprintf("A%d", row), e.EntryDate.Format("2006-01-02"))
		setCell(fmt.Sprintf("B%d", row), string(e.Type))
		setCell(fmt.Sprintf("C%d", row), e.Received.InexactFloat64())
		setCell(fmt.Sprintf("D%d", row), e.Sales.InexactFloat64())
		setCell(fmt.Sprintf("E%d", row), e.Expired.InexactFloat64())
		setCell(fmt.Sprintf("F%d", row), e.Damaged.InexactFloat64())
		setCell(fmt.Sprintf("G%d", row), e.Balance.InexactFloat64())
		setCell(fmt.Sprintf("H%d", row), e.BatchNumber)
		if e.ExpiryDate != nil {
			setCell(fmt.Sprintf("I%d", row), e.ExpiryDate.Format("2006-01-02"))
		}
		setCell(fmt.Sprintf("J%d", row), e.Note)
		row++
	}

	setCell(fmt.Sprintf("A%d", row), "Totals")
	setCell(fmt.Sprintf("C%d", row), doc.TotalReceived.InexactFloat64())
	setCell(fmt.Sprintf("D%d", row), doc.TotalSales.InexactFloat64())
	setCell(fmt.Sprintf("E%d", row), doc.TotalExpired.InexactFloat64())
	setCell(fmt.Sprintf("F%d", row), doc.TotalDamaged.InexactFloat64())
	row++
	setCell(fmt.Sprintf("A%d", row), "Closing balance")
	setCell(fmt.Sprintf("B%d", row), doc.ClosingBalance.InexactFloat64())

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	s.logger.Info("month ledger exported",
		zap.String("theater_id", theaterID.String()),
		zap.String("product_code", product.Code),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("entries", len(doc.Entries)),
	)

	return &ExportResult{
		FileName: fmt.Sprintf("stock-%s-%04d-%02d.xlsx", product.Code, year, month),
		Content:  buf.Bytes(),
	}, nil
}

// ExportMonthSummary renders the totals of every product's document for a
// theater-month as one sheet
func (s *ExportService) ExportMonthSummary(ctx context.Context, theaterID uuid.UUID, year, month int) (*ExportResult, error) {
	summary, err := s.stocks.MonthSummary(ctx, theaterID, year, month, shared.Filter{Page: 1, PageSize: 10000, OrderBy: "product_id", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, fmt.Errorf("rename export sheet: %w", err)
	}

	setCell := func(cell string, value interface{}) {
		_ = f.SetCellValue("Summary", cell, value)
	}

	setCell("A1", fmt.Sprintf("Stock summary %04d-%02d", year, month))
	headers := []string{"Code", "Product", "Opening", "Received", "Sales", "Expired", "Damaged", "Closing"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		setCell(cell, h)
	}

	row := 4
	for _, r := range summary.Rows {
		setCell(fmt.Sprintf("A%d", row), r.ProductCode)
		setCell(fmt.Sprintf("B%d", row), r.ProductName)
		setCell(fmt.Sprintf("C%d", row), r.OldStock.InexactFloat64())
		setCell(fmt.Sprintf("D%d", row), r.TotalReceived.InexactFloat64())
		setCell(fmt.Sprintf("E%d", row), r.TotalSales.InexactFloat64())
		setCell(fmt.Sprintf("F%d", row), r.TotalExpired.InexactFloat64())
		setCell(fmt.Sprintf("G%d", row), r.TotalDamaged.InexactFloat64())
		setCell(fmt.Sprintf("H%d", row), r.ClosingBalance.InexactFloat64())
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render export: %w", err)
	}

	return &ExportResult{
		FileName: fmt.Sprintf("stock-summary-%04d-%02d.xlsx", year, month),
		Content:  buf.Bytes(),
	}, nil
}
