package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/stock"
)

// AddEntryRequest records a new ledger line on a product's monthly document.
// Exactly which quantity fields are meaningful depends on the entry type;
// the domain rejects entries that move nothing.
type AddEntryRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Received    decimal.Decimal `json:"received"`
	Sales       decimal.Decimal `json:"sales"`
	Expired     decimal.Decimal `json:"expired"`
	Damaged     decimal.Decimal `json:"damaged"`
	BatchNumber string          `json:"batch_number" binding:"omitempty,max=50"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Note        string          `json:"note" binding:"omitempty,max=500"`
}

// UpdateEntryRequest replaces the caller-supplied fields of a ledger line
type UpdateEntryRequest struct {
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Type        string          `json:"type" binding:"required"`
	Received    decimal.Decimal `json:"received"`
	Sales       decimal.Decimal `json:"sales"`
	Expired     decimal.Decimal `json:"expired"`
	Damaged     decimal.Decimal `json:"damaged"`
	BatchNumber string          `json:"batch_number" binding:"omitempty,max=50"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Note        string          `json:"note" binding:"omitempty,max=500"`
}

func (r AddEntryRequest) toInput() stock.EntryInput {
	return stock.EntryInput{
		EntryDate:   r.EntryDate,
		Type:        stock.EntryType(r.Type),
		Received:    r.Received,
		Sales:       r.Sales,
		Expired:     r.Expired,
		Damaged:     r.Damaged,
		BatchNumber: r.BatchNumber,
		ExpiryDate:  r.ExpiryDate,
		Note:        r.Note,
	}
}

func (r UpdateEntryRequest) toInput() stock.EntryInput {
	return stock.EntryInput{
		EntryDate:   r.EntryDate,
		Type:        stock.EntryType(r.Type),
		Received:    r.Received,
		Sales:       r.Sales,
		Expired:     r.Expired,
		Damaged:     r.Damaged,
		BatchNumber: r.BatchNumber,
		ExpiryDate:  r.ExpiryDate,
		Note:        r.Note,
	}
}

// EntryResponse is one ledger line with its derived running balances
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryDate   time.Time       `json:"entry_date"`
	Type        string          `json:"type"`
	Received    decimal.Decimal `json:"received"`
	Sales       decimal.Decimal `json:"sales"`
	Expired     decimal.Decimal `json:"expired"`
	Damaged     decimal.Decimal `json:"damaged"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Note        string          `json:"note,omitempty"`
	OldStock    decimal.Decimal `json:"old_stock"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToEntryResponse converts a domain stock entry to an EntryResponse
func ToEntryResponse(e *stock.StockEntry) EntryResponse {
	return EntryResponse{
		ID:          e.ID,
		EntryDate:   e.EntryDate,
		Type:        string(e.Type),
		Received:    e.Received,
		Sales:       e.Sales,
		Expired:     e.Expired,
		Damaged:     e.Damaged,
		BatchNumber: e.BatchNumber,
		ExpiryDate:  e.ExpiryDate,
		Note:        e.Note,
		OldStock:    e.OldStock,
		Balance:     e.Balance,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// MonthlyStockResponse is the full monthly ledger document
type MonthlyStockResponse struct {
	ID             uuid.UUID       `json:"id"`
	TheaterID      uuid.UUID       `json:"theater_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OldStock       decimal.Decimal `json:"old_stock"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalExpired   decimal.Decimal `json:"total_expired"`
	TotalDamaged   decimal.Decimal `json:"total_damaged"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Entries        []EntryResponse `json:"entries"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToMonthlyStockResponse converts a domain document to a MonthlyStockResponse
func ToMonthlyStockResponse(doc *stock.MonthlyStock) MonthlyStockResponse {
	entries := make([]EntryResponse, 0, len(doc.Entries))
	for i := range doc.Entries {
		entries = append(entries, ToEntryResponse(&doc.Entries[i]))
	}
	return MonthlyStockResponse{
		ID:             doc.ID,
		TheaterID:      doc.TheaterID,
		ProductID:      doc.ProductID,
		Year:           doc.Year,
		Month:          doc.Month,
		OldStock:       doc.OldStock,
		TotalReceived:  doc.TotalReceived,
		TotalSales:     doc.TotalSales,
		TotalExpired:   doc.TotalExpired,
		TotalDamaged:   doc.TotalDamaged,
		ClosingBalance: doc.ClosingBalance,
		Entries:        entries,
		Version:        doc.Version,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

// MonthSummaryRow is one product's totals in the theater-month overview.
// ProductName and ProductCode are resolved from the catalog when available.
type MonthSummaryRow struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductCode    string          `json:"product_code,omitempty"`
	ProductName    string          `json:"product_name,omitempty"`
	OldStock       decimal.Decimal `json:"old_stock"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalExpired   decimal.Decimal `json:"total_expired"`
	TotalDamaged   decimal.Decimal `json:"total_damaged"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// MonthSummaryResponse is the theater-month stock overview
type MonthSummaryResponse struct {
	TheaterID uuid.UUID         `json:"theater_id"`
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	Rows      []MonthSummaryRow `json:"rows"`
	Total     int64             `json:"total"`
}

// ExpiringLotResponse is a stock batch past its expiry date that has not
// been written off yet
type ExpiringLotResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Remaining   decimal.Decimal `json:"remaining"`
}
