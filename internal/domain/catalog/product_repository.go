package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForTheater finds a product by ID scoped to the theater
	FindByIDForTheater(ctx context.Context, theaterID, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code within the theater
	FindByCode(ctx context.Context, theaterID uuid.UUID, code string) (*Product, error)

	// FindByIDs finds products by a list of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)

	// FindAll returns products for the theater with pagination
	FindAll(ctx context.Context, theaterID uuid.UUID, filter ProductFilter) ([]*Product, int64, error)

	// FindSellable returns active products for the customer menu,
	// ordered by category and sort order
	FindSellable(ctx context.Context, theaterID uuid.UUID) ([]*Product, error)

	// FindByCategory returns products in the given category
	FindByCategory(ctx context.Context, theaterID, categoryID uuid.UUID) ([]*Product, error)

	// ExistsByCode checks if a product code already exists within the theater
	ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error)
}

// ProductFilter contains filter options for querying products
type ProductFilter struct {
	// Search keyword for code or name
	Keyword string

	// Filter by category
	CategoryID *uuid.UUID

	// Filter by status
	Status *ProductStatus

	// Only vegetarian products
	VegetarianOnly bool

	// Pagination
	Page     int
	PageSize int
}

// NewProductFilter creates a new ProductFilter with default values
func NewProductFilter() ProductFilter {
	return ProductFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f ProductFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ProductFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
