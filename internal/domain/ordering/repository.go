package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates a new order with its items
	Create(ctx context.Context, order *Order) error

	// Update updates an existing order and its items
	Update(ctx context.Context, order *Order) error

	// FindByID finds an order by ID including items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number within the theater
	FindByNumber(ctx context.Context, theaterID uuid.UUID, orderNumber string) (*Order, error)

	// FindAll returns orders for the theater with pagination
	FindAll(ctx context.Context, theaterID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// FindOpenByTable returns non-terminal orders for a dining table
	FindOpenByTable(ctx context.Context, theaterID, tableID uuid.UUID) ([]*Order, error)

	// CountByDate returns the number of orders the theater placed on the
	// given day, used for order number generation
	CountByDate(ctx context.Context, theaterID uuid.UUID, date time.Time) (int64, error)
}

// DiningTableRepository defines the interface for dining table persistence
type DiningTableRepository interface {
	// Create creates a new dining table
	Create(ctx context.Context, table *DiningTable) error

	// Update updates an existing dining table
	Update(ctx context.Context, table *DiningTable) error

	// Delete deletes a dining table by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a dining table by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DiningTable, error)

	// FindByQRToken finds a dining table by its QR token.
	// The token is globally unique, so no theater scope is needed.
	FindByQRToken(ctx context.Context, token string) (*DiningTable, error)

	// FindByNumber finds a dining table by its number within the theater
	FindByNumber(ctx context.Context, theaterID uuid.UUID, number string) (*DiningTable, error)

	// FindAll returns all dining tables for the theater
	FindAll(ctx context.Context, theaterID uuid.UUID) ([]*DiningTable, error)

	// ExistsByNumber checks if a table number already exists within the theater
	ExistsByNumber(ctx context.Context, theaterID uuid.UUID, number string) (bool, error)
}

// OrderFilter contains filter options for querying orders
type OrderFilter struct {
	// Filter by status
	Status *OrderStatus

	// Filter by dining table
	TableID *uuid.UUID

	// Date range on creation time
	From *time.Time
	To   *time.Time

	// Pagination
	Page     int
	PageSize int
}

// NewOrderFilter creates a new OrderFilter with default values
func NewOrderFilter() OrderFilter {
	return OrderFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f OrderFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f OrderFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
