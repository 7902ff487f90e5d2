package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/stock"
)

// movementRetries bounds the optimistic-lock retry loop when order events
// race with manual ledger edits on the same monthly document.
const movementRetries = 3

// OrderEventHandler keeps the stock ledgers in sync with the order
// lifecycle: a confirmed order deducts stock with SOLD entries, and a
// cancellation after confirmation puts it back with RETURNED entries.
type OrderEventHandler struct {
	service *StockService
	logger  *zap.Logger
}

// NewOrderEventHandler creates a new order event handler
func NewOrderEventHandler(service *StockService, logger *zap.Logger) *OrderEventHandler {
	return &OrderEventHandler{service: service, logger: logger}
}

// EventTypes returns the order events the stock module subscribes to
func (h *OrderEventHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderConfirmed, ordering.EventTypeOrderCancelled}
}

// Handle records ledger movements for a single order event
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderConfirmedEvent:
		note := fmt.Sprintf("Order %s confirmed", e.OrderNumber)
		return h.recordLines(ctx, e.TheaterID(), e.Lines, stock.EntryTypeSold, e.OccurredAt(), note)
	case *ordering.OrderCancelledEvent:
		if !e.StockDeducted {
			return nil
		}
		note := fmt.Sprintf("Order %s cancelled", e.OrderNumber)
		return h.recordLines(ctx, e.TheaterID(), e.Lines, stock.EntryTypeReturned, e.OccurredAt(), note)
	}
	return nil
}

// recordLines writes one ledger entry per order line. A line whose product
// has since disappeared is logged and skipped rather than blocking the
// remaining lines.
func (h *OrderEventHandler) recordLines(ctx context.Context, theaterID uuid.UUID, lines []ordering.OrderLine, entryType stock.EntryType, occurredAt time.Time, note string) error {
	var firstErr error
	for _, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		err := h.service.recordMovement(ctx, theaterID, line.ProductID, line.Quantity, entryType, occurredAt, note)
		if err == nil {
			continue
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "PRODUCT_NOT_FOUND" {
			h.logger.Warn("stock movement skipped for missing product",
				zap.String("theater_id", theaterID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.String("entry_type", string(entryType)),
			)
			continue
		}
		h.logger.Error("stock movement failed",
			zap.String("theater_id", theaterID.String()),
			zap.String("product_id", line.ProductID.String()),
			zap.String("entry_type", string(entryType)),
			zap.Error(err),
		)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ shared.EventHandler = (*OrderEventHandler)(nil)

// recordMovement writes a single ledger entry, retrying the read-modify-write
// cycle when a concurrent edit of the same monthly document wins the race
func (s *StockService) recordMovement(ctx context.Context, theaterID, productID uuid.UUID, quantity decimal.Decimal, entryType stock.EntryType, occurredAt time.Time, note string) error {
	date := occurredAt.UTC()
	input := stock.EntryInput{
		EntryDate: date,
		Type:      entryType,
		Note:      note,
	}
	switch entryType {
	case stock.EntryTypeSold:
		input.Sales = quantity
	case stock.EntryTypeReturned:
		input.Received = quantity
	default:
		return shared.NewDomainError("INVALID_ENTRY_TYPE", fmt.Sprintf("Order movements cannot be of type %q", entryType))
	}

	var err error
	for attempt := 0; attempt < movementRetries; attempt++ {
		var doc *stock.MonthlyStock
		doc, err = s.getOrCreateMonth(ctx, theaterID, productID, date.Year(), int(date.Month()))
		if err != nil {
			return err
		}
		if _, err = doc.AddEntry(input); err != nil {
			return err
		}
		if err = s.stockRepo.Save(ctx, doc); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				continue
			}
			return err
		}
		return s.propagateCarryForward(ctx, theaterID, productID, doc.Year, doc.Month, doc.ClosingBalance)
	}
	return err
}
