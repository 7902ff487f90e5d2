package catalog

import (
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product represents a sellable canteen item.
// MinThreshold drives the daily low-stock alert; ShelfLifeDays is used to
// suggest expiry dates when stock batches are received.
type Product struct {
	shared.TheaterAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_theater_code,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	Unit          string          `gorm:"type:varchar(20);not null"` // e.g., "pcs", "kg", "cup"
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinThreshold  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock alert level
	ShelfLifeDays int             `gorm:"not null;default:0"`                    // 0 means non-perishable
	IsVegetarian  bool            `gorm:"not null;default:false"`
	ImageURL      string          `gorm:"type:varchar(500)"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(theaterID uuid.UUID, code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		TheaterAggregateRoot: shared.NewTheaterAggregateRoot(theaterID),
		Code:                 strings.ToUpper(code),
		Name:                 name,
		Unit:                 unit,
		Price:                decimal.Zero,
		CostPrice:            decimal.Zero,
		MinThreshold:         decimal.Zero,
		Status:               ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
}

// SetPrices sets the selling and cost prices
func (p *Product) SetPrices(price, costPrice decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if costPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	oldPrice := p.Price
	p.Price = price
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice, price))

	return nil
}

// SetMinThreshold sets the low-stock alert level
func (p *Product) SetMinThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum threshold cannot be negative")
	}

	p.MinThreshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetShelfLife sets the shelf life in days; 0 marks the product non-perishable
func (p *Product) SetShelfLife(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}

	p.ShelfLifeDays = days
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsPerishable returns true if the product has a shelf life
func (p *Product) IsPerishable() bool {
	return p.ShelfLifeDays > 0
}

// SuggestedExpiry returns the expiry date for a batch received on the given day,
// or nil for non-perishable products
func (p *Product) SuggestedExpiry(receivedAt time.Time) *time.Time {
	if !p.IsPerishable() {
		return nil
	}
	expiry := receivedAt.AddDate(0, 0, p.ShelfLifeDays)
	return &expiry
}

// SetVegetarian flags the product as vegetarian
func (p *Product) SetVegetarian(isVegetarian bool) {
	p.IsVegetarian = isVegetarian
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetImageURL sets the product image shown in the customer menu
func (p *Product) SetImageURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order of the product
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product, hiding it from the customer menu
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Product is discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue permanently retires the product. Its stock history stays
// readable but no new orders or stock entries may reference it.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsSellable returns true if the product can appear on the customer menu
func (p *Product) IsSellable() bool {
	return p.Status == ProductStatusActive
}

// validateProductCode validates the product code
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateUnit validates the product unit
func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Product unit cannot exceed 20 characters")
	}
	return nil
}
