package ordering

import (
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeOrder       = "Order"
	AggregateTypeDiningTable = "DiningTable"
)

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderConfirmed     = "OrderConfirmed"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCompleted     = "OrderCompleted"
	EventTypeOrderCancelled     = "OrderCancelled"

	EventTypeDiningTableCreated      = "DiningTableCreated"
	EventTypeDiningTableTokenRotated = "DiningTableTokenRotated"
)

// OrderLine is the item snapshot carried inside order events so stock
// handlers do not have to reload the aggregate
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func orderLines(order *Order) []OrderLine {
	lines := make([]OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// OrderCreatedEvent is published when a customer places an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	Source      OrderSource `json:"source"`
	TableNumber string      `json:"table_number,omitempty"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID, order.TheaterID),
		OrderNumber:     order.OrderNumber,
		Source:          order.Source,
		TableNumber:     order.TableNumber,
	}
}

// OrderConfirmedEvent is published when staff accept an order.
// The stock module subscribes to it and records SOLD entries.
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TableNumber string          `json:"table_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Lines       []OrderLine     `json:"lines"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID, order.TheaterID),
		OrderNumber:     order.OrderNumber,
		TableNumber:     order.TableNumber,
		TotalAmount:     order.TotalAmount,
		Lines:           orderLines(order),
	}
}

// OrderStatusChangedEvent is published on kitchen workflow transitions
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	OldStatus   OrderStatus `json:"old_status"`
	NewStatus   OrderStatus `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, oldStatus, newStatus OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, order.TheaterID),
		OrderNumber:     order.OrderNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// OrderCompletedEvent is published when an order is paid and closed
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, order.ID, order.TheaterID),
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
	}
}

// OrderCancelledEvent is published when an order is cancelled.
// StockDeducted tells the stock module whether RETURNED entries are needed.
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string      `json:"order_number"`
	Reason        string      `json:"reason"`
	StockDeducted bool        `json:"stock_deducted"`
	Lines         []OrderLine `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, stockDeducted bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TheaterID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
		StockDeducted:   stockDeducted,
		Lines:           orderLines(order),
	}
}

// DiningTableCreatedEvent is published when a new dining table is created
type DiningTableCreatedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Zone   string `json:"zone,omitempty"`
}

// NewDiningTableCreatedEvent creates a new DiningTableCreatedEvent
func NewDiningTableCreatedEvent(table *DiningTable) *DiningTableCreatedEvent {
	return &DiningTableCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDiningTableCreated, AggregateTypeDiningTable, table.ID, table.TheaterID),
		Number:          table.Number,
		Zone:            table.Zone,
	}
}

// DiningTableTokenRotatedEvent is published when a table's QR token is rotated
type DiningTableTokenRotatedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewDiningTableTokenRotatedEvent creates a new DiningTableTokenRotatedEvent
func NewDiningTableTokenRotatedEvent(table *DiningTable) *DiningTableTokenRotatedEvent {
	return &DiningTableTokenRotatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDiningTableTokenRotated, AggregateTypeDiningTable, table.ID, table.TheaterID),
		Number:          table.Number,
	}
}
