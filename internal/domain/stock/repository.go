package stock

import (
	"context"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MonthlyStockRepository defines persistence operations for monthly stock documents.
// Save persists the whole aggregate (document plus entries) in one write; the
// read-modify-write cycle is guarded by the aggregate's version column, and a
// stale write must surface shared.ErrConcurrencyConflict.
type MonthlyStockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MonthlyStock, error)
	FindByIDForTheater(ctx context.Context, theaterID, id uuid.UUID) (*MonthlyStock, error)

	// FindByMonth returns the document for (theater, product, year, month),
	// or shared.ErrNotFound when no document exists yet
	FindByMonth(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*MonthlyStock, error)

	// FindLatestBefore returns the most recent document strictly before the
	// given (year, month) for the product, or shared.ErrNotFound
	FindLatestBefore(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*MonthlyStock, error)

	// FindFollowingMonths returns all documents strictly after (year, month)
	// for the product, in ascending month order
	FindFollowingMonths(ctx context.Context, theaterID, productID uuid.UUID, year, month int) ([]MonthlyStock, error)

	// FindAllForMonth returns every product's document for a theater-month
	FindAllForMonth(ctx context.Context, theaterID uuid.UUID, year, month int, filter shared.Filter) ([]MonthlyStock, error)
	CountForMonth(ctx context.Context, theaterID uuid.UUID, year, month int) (int64, error)

	// FindAllForTheater returns every monthly document of a theater, ordered
	// by product and then ascending month, so callers can evaluate a
	// product's full batch history (used by the stock alert jobs; batch
	// receipts live in the month the stock arrived, not the current one)
	FindAllForTheater(ctx context.Context, theaterID uuid.UUID) ([]MonthlyStock, error)

	Save(ctx context.Context, doc *MonthlyStock) error
	Delete(ctx context.Context, theaterID, id uuid.UUID) error
}
