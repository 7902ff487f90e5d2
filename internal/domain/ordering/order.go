package ordering

import (
	"fmt"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a canteen order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"   // Placed by customer, not yet accepted
	OrderStatusConfirmed OrderStatus = "CONFIRMED" // Accepted by staff, stock deducted
	OrderStatusPreparing OrderStatus = "PREPARING" // In the kitchen
	OrderStatusDelivered OrderStatus = "DELIVERED" // Brought to the table
	OrderStatusCompleted OrderStatus = "COMPLETED" // Paid and closed
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered:
		return target == OrderStatusCompleted
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderSource records where the order was taken
type OrderSource string

const (
	OrderSourceTable   OrderSource = "TABLE"   // Customer checkout via a table's QR code
	OrderSourceCounter OrderSource = "COUNTER" // Staff-entered walk-up order
)

// PaymentMethod marks how an order was settled. There is no gateway:
// the marker only records what happened at the counter.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodUPI  PaymentMethod = "UPI"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodUPI
}

// OrderItem represents a line item in an order. Product name, code, unit and
// price are snapshots taken when the item was added; later catalog edits do
// not change placed orders.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	Note        string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item with a product snapshot
func NewOrderItem(orderID, productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		ProductCode: productCode,
		Unit:        unit,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the item quantity and recalculates the amount
func (i *OrderItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.Quantity = quantity
	i.Amount = quantity.Mul(i.UnitPrice)
	i.UpdatedAt = time.Now()

	return nil
}

// SetNote sets the customer note for the item (e.g., "no ice")
func (i *OrderItem) SetNote(note string) error {
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}
	i.Note = note
	i.UpdatedAt = time.Now()
	return nil
}

// Order represents a customer order placed from a dining table.
// Confirming the order is the point where stock gets deducted; cancelling
// a confirmed order returns the stock.
type Order struct {
	shared.TheaterAggregateRoot
	OrderNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Source        OrderSource     `gorm:"type:varchar(20);not null;default:'TABLE'"`
	TableID       *uuid.UUID      `gorm:"type:uuid;index"` // nil for counter orders
	TableNumber   string          `gorm:"type:varchar(20)"` // Snapshot for kitchen display
	CustomerName  string          `gorm:"type:varchar(100)"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20)"` // empty until paid
	PaidAt        *time.Time
	Note          string `gorm:"type:varchar(500)"`
	ConfirmedAt   *time.Time
	DeliveredAt   *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order for a dining table
func NewOrder(theaterID uuid.UUID, orderNumber string, tableID uuid.UUID, tableNumber string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if tableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TABLE", "Table ID cannot be empty")
	}
	if tableNumber == "" {
		return nil, shared.NewDomainError("INVALID_TABLE_NUMBER", "Table number cannot be empty")
	}

	order := &Order{
		TheaterAggregateRoot: shared.NewTheaterAggregateRoot(theaterID),
		OrderNumber:          orderNumber,
		Source:               OrderSourceTable,
		TableID:              &tableID,
		TableNumber:          tableNumber,
		Items:                make([]OrderItem, 0),
		TotalAmount:          decimal.Zero,
		Status:               OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// NewCounterOrder creates a new pending order taken at the POS counter,
// without an associated dining table.
func NewCounterOrder(theaterID uuid.UUID, orderNumber string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}

	order := &Order{
		TheaterAggregateRoot: shared.NewTheaterAggregateRoot(theaterID),
		OrderNumber:          orderNumber,
		Source:               OrderSourceCounter,
		Items:                make([]OrderItem, 0),
		TotalAmount:          decimal.Zero,
		Status:               OrderStatusPending,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// SetCustomerName sets the optional customer name
func (o *Order) SetCustomerName(name string) error {
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 100 characters")
	}
	o.CustomerName = name
	o.UpdatedAt = time.Now()
	return nil
}

// SetNote sets the order note
func (o *Order) SetNote(note string) error {
	if len(note) > 500 {
		return shared.NewDomainError("INVALID_NOTE", "Note cannot exceed 500 characters")
	}
	o.Note = note
	o.UpdatedAt = time.Now()
	return nil
}

// AddItem adds a new item to the order. Only allowed while PENDING.
// Adding the same product twice merges into one line.
func (o *Order) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice decimal.Decimal) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}

	if existing := o.GetItemByProduct(productID); existing != nil {
		if err := existing.UpdateQuantity(existing.Quantity.Add(quantity)); err != nil {
			return nil, err
		}
		o.recalculateTotal()
		o.UpdatedAt = time.Now()
		return existing, nil
	}

	item, err := NewOrderItem(o.ID, productID, productName, productCode, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity updates the quantity of an existing item. Only allowed while PENDING.
func (o *Order) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-pending order")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			if err := o.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes an item from the order. Only allowed while PENDING.
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-pending order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// Confirm accepts the order. Stock deduction is driven by the published event.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot confirm order without items")
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// StartPreparing moves the order into the kitchen
func (o *Order) StartPreparing() error {
	if !o.Status.CanTransitionTo(OrderStatusPreparing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start preparing order in %s status", o.Status))
	}

	o.Status = OrderStatusPreparing
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusConfirmed, OrderStatusPreparing))

	return nil
}

// MarkDelivered marks the order as brought to the table
func (o *Order) MarkDelivered() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, OrderStatusPreparing, OrderStatusDelivered))

	return nil
}

// MarkPaid records that the order was settled with the given method.
// Payment is a marker only; no gateway is involved.
func (o *Order) MarkPaid(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method: %s", method))
	}
	if o.IsPaid() {
		return shared.NewDomainError("ALREADY_PAID", "Order is already paid")
	}
	if o.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay order in %s status", o.Status))
	}

	now := time.Now()
	o.PaymentMethod = method
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Complete closes the order after payment
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(OrderStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete order in %s status", o.Status))
	}
	if !o.IsPaid() {
		return shared.NewDomainError("NOT_PAID", "Order must be paid before completion")
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.CompletedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel cancels the order. If stock was already deducted (order was past
// PENDING), the published event carries that so the stock can be returned.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	stockDeducted := o.Status != OrderStatusPending
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, stockDeducted))

	return nil
}

// recalculateTotal recalculates the order total
func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsPending returns true if the order awaits acceptance
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsPaid returns true if payment has been recorded
func (o *Order) IsPaid() bool {
	return o.PaidAt != nil
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsTerminal returns true if the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns an item by product ID
func (o *Order) GetItemByProduct(productID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
