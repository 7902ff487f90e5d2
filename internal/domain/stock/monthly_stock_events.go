package stock

import (
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeMonthlyStock = "MonthlyStock"

// Event type constants
const (
	EventTypeMonthlyStockCreated = "MonthlyStockCreated"
	EventTypeStockEntryAdded     = "StockEntryAdded"
	EventTypeStockEntryUpdated   = "StockEntryUpdated"
	EventTypeStockEntryRemoved   = "StockEntryRemoved"
)

// MonthlyStockCreatedEvent is raised when a new monthly document is opened
type MonthlyStockCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewMonthlyStockCreatedEvent creates a new MonthlyStockCreatedEvent
func NewMonthlyStockCreatedEvent(doc *MonthlyStock) *MonthlyStockCreatedEvent {
	return &MonthlyStockCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMonthlyStockCreated, AggregateTypeMonthlyStock, doc.ID, doc.TheaterID),
		ProductID:       doc.ProductID,
		Year:            doc.Year,
		Month:           doc.Month,
		OpeningBalance:  doc.OldStock,
	}
}

// EventType returns the event type name
func (e *MonthlyStockCreatedEvent) EventType() string {
	return EventTypeMonthlyStockCreated
}

// StockEntryAddedEvent is raised when a ledger line is appended
type StockEntryAddedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	EntryID        uuid.UUID       `json:"entry_id"`
	EntryType      EntryType       `json:"entry_type"`
	NetMovement    decimal.Decimal `json:"net_movement"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// NewStockEntryAddedEvent creates a new StockEntryAddedEvent
func NewStockEntryAddedEvent(doc *MonthlyStock, entry *StockEntry) *StockEntryAddedEvent {
	return &StockEntryAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntryAdded, AggregateTypeMonthlyStock, doc.ID, doc.TheaterID),
		ProductID:       doc.ProductID,
		EntryID:         entry.ID,
		EntryType:       entry.Type,
		NetMovement:     entry.NetMovement(),
		ClosingBalance:  doc.ClosingBalance,
	}
}

// EventType returns the event type name
func (e *StockEntryAddedEvent) EventType() string {
	return EventTypeStockEntryAdded
}

// StockEntryUpdatedEvent is raised when a ledger line is edited
type StockEntryUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	EntryID        uuid.UUID       `json:"entry_id"`
	EntryType      EntryType       `json:"entry_type"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// NewStockEntryUpdatedEvent creates a new StockEntryUpdatedEvent
func NewStockEntryUpdatedEvent(doc *MonthlyStock, entry *StockEntry) *StockEntryUpdatedEvent {
	return &StockEntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntryUpdated, AggregateTypeMonthlyStock, doc.ID, doc.TheaterID),
		ProductID:       doc.ProductID,
		EntryID:         entry.ID,
		EntryType:       entry.Type,
		ClosingBalance:  doc.ClosingBalance,
	}
}

// EventType returns the event type name
func (e *StockEntryUpdatedEvent) EventType() string {
	return EventTypeStockEntryUpdated
}

// StockEntryRemovedEvent is raised when a ledger line is deleted
type StockEntryRemovedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	EntryID        uuid.UUID       `json:"entry_id"`
	EntryType      EntryType       `json:"entry_type"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// NewStockEntryRemovedEvent creates a new StockEntryRemovedEvent
func NewStockEntryRemovedEvent(doc *MonthlyStock, entry *StockEntry) *StockEntryRemovedEvent {
	return &StockEntryRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntryRemoved, AggregateTypeMonthlyStock, doc.ID, doc.TheaterID),
		ProductID:       doc.ProductID,
		EntryID:         entry.ID,
		EntryType:       entry.Type,
		ClosingBalance:  doc.ClosingBalance,
	}
}

// EventType returns the event type name
func (e *StockEntryRemovedEvent) EventType() string {
	return EventTypeStockEntryRemoved
}
