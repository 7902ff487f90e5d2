package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/stock"
)

// StockService maintains the per-product monthly stock ledgers of a theater.
// Documents are created lazily on first touch, seeded with the closing
// balance of the most recent earlier month, and every mutation cascades the
// new closing balance into any already-opened later months.
type StockService struct {
	stockRepo   stock.MonthlyStockRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	stockRepo stock.MonthlyStockRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddEntry records a ledger line on the month the entry date falls in,
// creating the monthly document if this is its first entry
func (s *StockService) AddEntry(ctx context.Context, theaterID uuid.UUID, req AddEntryRequest) (*MonthlyStockResponse, error) {
	date := req.EntryDate.UTC()
	doc, err := s.getOrCreateMonth(ctx, theaterID, req.ProductID, date.Year(), int(date.Month()))
	if err != nil {
		return nil, err
	}

	if _, err := doc.AddEntry(req.toInput()); err != nil {
		return nil, err
	}

	if err := s.stockRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.propagateCarryForward(ctx, theaterID, doc.ProductID, doc.Year, doc.Month, doc.ClosingBalance); err != nil {
		return nil, err
	}

	s.logger.Info("stock entry added",
		zap.String("theater_id", theaterID.String()),
		zap.String("product_id", doc.ProductID.String()),
		zap.Int("year", doc.Year),
		zap.Int("month", doc.Month),
		zap.String("type", req.Type),
	)

	resp := ToMonthlyStockResponse(doc)
	return &resp, nil
}

// UpdateEntry replaces an existing ledger line and recalculates the document
func (s *StockService) UpdateEntry(ctx context.Context, theaterID, docID, entryID uuid.UUID, req UpdateEntryRequest) (*MonthlyStockResponse, error) {
	doc, err := s.stockRepo.FindByIDForTheater(ctx, theaterID, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.UpdateEntry(entryID, req.toInput()); err != nil {
		return nil, err
	}

	if err := s.stockRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.propagateCarryForward(ctx, theaterID, doc.ProductID, doc.Year, doc.Month, doc.ClosingBalance); err != nil {
		return nil, err
	}

	resp := ToMonthlyStockResponse(doc)
	return &resp, nil
}

// RemoveEntry deletes a ledger line and recalculates the document
func (s *StockService) RemoveEntry(ctx context.Context, theaterID, docID, entryID uuid.UUID) (*MonthlyStockResponse, error) {
	doc, err := s.stockRepo.FindByIDForTheater(ctx, theaterID, docID)
	if err != nil {
		return nil, err
	}

	if err := doc.RemoveEntry(entryID); err != nil {
		return nil, err
	}

	if err := s.stockRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.propagateCarryForward(ctx, theaterID, doc.ProductID, doc.Year, doc.Month, doc.ClosingBalance); err != nil {
		return nil, err
	}

	resp := ToMonthlyStockResponse(doc)
	return &resp, nil
}

// GetMonth returns a product's ledger for a month. When no document exists
// yet, a transient one is returned carrying the opening balance rolled over
// from the most recent earlier month; nothing is persisted until an entry
// is recorded.
func (s *StockService) GetMonth(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*MonthlyStockResponse, error) {
	doc, err := s.getOrCreateMonth(ctx, theaterID, productID, year, month)
	if err != nil {
		return nil, err
	}
	resp := ToMonthlyStockResponse(doc)
	return &resp, nil
}

// GetDocument returns a monthly document by its ID
func (s *StockService) GetDocument(ctx context.Context, theaterID, docID uuid.UUID) (*MonthlyStockResponse, error) {
	doc, err := s.stockRepo.FindByIDForTheater(ctx, theaterID, docID)
	if err != nil {
		return nil, err
	}
	resp := ToMonthlyStockResponse(doc)
	return &resp, nil
}

// MonthSummary returns the totals of every product's document for a
// theater-month, with product names resolved from the catalog
func (s *StockService) MonthSummary(ctx context.Context, theaterID uuid.UUID, year, month int, filter shared.Filter) (*MonthSummaryResponse, error) {
	docs, err := s.stockRepo.FindAllForMonth(ctx, theaterID, year, month, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.stockRepo.CountForMonth(ctx, theaterID, year, month)
	if err != nil {
		return nil, err
	}

	products, err := s.productIndex(ctx, docs)
	if err != nil {
		return nil, err
	}

	rows := make([]MonthSummaryRow, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		row := MonthSummaryRow{
			ProductID:      doc.ProductID,
			OldStock:       doc.OldStock,
			TotalReceived:  doc.TotalReceived,
			TotalSales:     doc.TotalSales,
			TotalExpired:   doc.TotalExpired,
			TotalDamaged:   doc.TotalDamaged,
			ClosingBalance: doc.ClosingBalance,
		}
		if p, ok := products[doc.ProductID]; ok {
			row.ProductCode = p.Code
			row.ProductName = p.Name
		}
		rows = append(rows, row)
	}

	return &MonthSummaryResponse{
		TheaterID: theaterID,
		Year:      year,
		Month:     month,
		Rows:      rows,
		Total:     total,
	}, nil
}

// ExpiringLots scans a theater's ledgers for batches past their expiry date
// that have not been written off yet. The whole history of each product is
// evaluated: a batch received months ago stays visible until an EXPIRED
// entry, wherever it was recorded, accounts for it.
func (s *StockService) ExpiringLots(ctx context.Context, theaterID uuid.UUID, asOf time.Time) ([]ExpiringLotResponse, error) {
	date := asOf.UTC()
	docs, err := s.stockRepo.FindAllForTheater(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	products, err := s.productIndex(ctx, docs)
	if err != nil {
		return nil, err
	}

	lots := make([]ExpiringLotResponse, 0)
	for _, group := range groupByProduct(docs) {
		productID := group[0].ProductID
		for _, lot := range stock.PendingExpiryAcross(group, date) {
			resp := ExpiringLotResponse{
				ProductID:   productID,
				BatchNumber: lot.BatchNumber,
				ExpiryDate:  lot.ExpiryDate,
				Remaining:   lot.Remaining,
			}
			if p, ok := products[productID]; ok {
				resp.ProductCode = p.Code
				resp.ProductName = p.Name
			}
			lots = append(lots, resp)
		}
	}
	return lots, nil
}

// DeleteMonth removes an empty monthly document and reseeds any later
// months from the previous month's closing balance
func (s *StockService) DeleteMonth(ctx context.Context, theaterID, docID uuid.UUID) error {
	doc, err := s.stockRepo.FindByIDForTheater(ctx, theaterID, docID)
	if err != nil {
		return err
	}
	if doc.HasEntries() {
		return shared.NewDomainError("MONTH_NOT_EMPTY", "A monthly document with entries cannot be deleted")
	}

	if err := s.stockRepo.Delete(ctx, theaterID, docID); err != nil {
		return err
	}

	opening := decimal.Zero
	prev, err := s.stockRepo.FindLatestBefore(ctx, theaterID, doc.ProductID, doc.Year, doc.Month)
	if err == nil {
		opening = prev.ClosingBalance
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return s.propagateCarryForward(ctx, theaterID, doc.ProductID, doc.Year, doc.Month, opening)
}

// getOrCreateMonth loads the (theater, product, year, month) document or
// builds a new one seeded from the most recent earlier month's closing
// balance. A freshly built document is not persisted; Save happens when
// the first entry is recorded.
func (s *StockService) getOrCreateMonth(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*stock.MonthlyStock, error) {
	doc, err := s.stockRepo.FindByMonth(ctx, theaterID, productID, year, month)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if _, err := s.productRepo.FindByIDForTheater(ctx, theaterID, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	opening := decimal.Zero
	prev, err := s.stockRepo.FindLatestBefore(ctx, theaterID, productID, year, month)
	if err == nil {
		opening = prev.ClosingBalance
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return stock.NewMonthlyStock(theaterID, productID, year, month, opening)
}

// propagateCarryForward pushes a changed closing balance into the opening
// balances of already-opened later months. The walk stops at the first
// month whose opening balance already matches, since nothing downstream of
// it can have changed.
func (s *StockService) propagateCarryForward(ctx context.Context, theaterID, productID uuid.UUID, year, month int, closing decimal.Decimal) error {
	following, err := s.stockRepo.FindFollowingMonths(ctx, theaterID, productID, year, month)
	if err != nil {
		return err
	}

	prevClosing := closing
	for i := range following {
		next := &following[i]
		if next.OldStock.Equal(prevClosing) {
			break
		}
		next.SeedOpeningBalance(prevClosing)
		if err := s.stockRepo.Save(ctx, next); err != nil {
			return err
		}
		s.logger.Info("carry-forward propagated",
			zap.String("product_id", productID.String()),
			zap.Int("year", next.Year),
			zap.Int("month", next.Month),
			zap.String("opening_balance", next.OldStock.String()),
		)
		prevClosing = next.ClosingBalance
	}
	return nil
}

// groupByProduct splits a product-then-month ordered document list into one
// chronological slice per product
func groupByProduct(docs []stock.MonthlyStock) [][]stock.MonthlyStock {
	groups := make([][]stock.MonthlyStock, 0)
	start := 0
	for i := 1; i <= len(docs); i++ {
		if i == len(docs) || docs[i].ProductID != docs[start].ProductID {
			groups = append(groups, docs[start:i])
			start = i
		}
	}
	return groups
}

// productIndex resolves the products referenced by a document list
func (s *StockService) productIndex(ctx context.Context, docs []stock.MonthlyStock) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(docs))
	seen := make(map[uuid.UUID]bool, len(docs))
	for i := range docs {
		if !seen[docs[i].ProductID] {
			seen[docs[i].ProductID] = true
			ids = append(ids, docs[i].ProductID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	return index, nil
}
