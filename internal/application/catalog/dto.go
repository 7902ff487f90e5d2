package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/canteen/backend/internal/domain/catalog"
)

// CreateCategoryRequest creates a menu category.
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,min=2,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest is a partial category update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string `json:"image_url" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
}

// CategoryResponse is the API shape of a category.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	TheaterID   uuid.UUID `json:"theater_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	SortOrder   int       `json:"sort_order"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

func ToCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		TheaterID:   category.TheaterID,
		Code:        category.Code,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		SortOrder:   category.SortOrder,
		Status:      string(category.Status),
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
		Version:     category.Version,
	}
}

// CreateProductRequest creates a sellable item.
type CreateProductRequest struct {
	Code          string          `json:"code" binding:"required,min=2,max=50"`
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit" binding:"required,min=1,max=20"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	MinThreshold  decimal.Decimal `json:"min_threshold"`
	ShelfLifeDays int             `json:"shelf_life_days" binding:"gte=0"`
	IsVegetarian  bool            `json:"is_vegetarian"`
	ImageURL      string          `json:"image_url" binding:"omitempty,url,max=500"`
	SortOrder     int             `json:"sort_order"`
}

// UpdateProductRequest is a partial product update.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	ClearCategory bool             `json:"clear_category"`
	Price         *decimal.Decimal `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	MinThreshold  *decimal.Decimal `json:"min_threshold"`
	ShelfLifeDays *int             `json:"shelf_life_days" binding:"omitempty,gte=0"`
	IsVegetarian  *bool            `json:"is_vegetarian"`
	ImageURL      *string          `json:"image_url" binding:"omitempty,max=500"`
	SortOrder     *int             `json:"sort_order"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TheaterID     uuid.UUID       `json:"theater_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	MinThreshold  decimal.Decimal `json:"min_threshold"`
	ShelfLifeDays int             `json:"shelf_life_days"`
	IsVegetarian  bool            `json:"is_vegetarian"`
	ImageURL      string          `json:"image_url"`
	Status        string          `json:"status"`
	SortOrder     int             `json:"sort_order"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

func ToProductResponse(product *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:            product.ID,
		TheaterID:     product.TheaterID,
		Code:          product.Code,
		Name:          product.Name,
		Description:   product.Description,
		CategoryID:    product.CategoryID,
		Unit:          product.Unit,
		Price:         product.Price,
		CostPrice:     product.CostPrice,
		MinThreshold:  product.MinThreshold,
		ShelfLifeDays: product.ShelfLifeDays,
		IsVegetarian:  product.IsVegetarian,
		ImageURL:      product.ImageURL,
		Status:        string(product.Status),
		SortOrder:     product.SortOrder,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
		Version:       product.Version,
	}
}

// MenuResponse is the customer-facing menu: active products grouped by
// category in display order. It is what the menu cache stores.
type MenuResponse struct {
	TheaterID   uuid.UUID      `json:"theater_id"`
	Categories  []MenuCategory `json:"categories"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// MenuCategory groups the sellable items of one category.
type MenuCategory struct {
	ID       uuid.UUID  `json:"id"`
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	ImageURL string     `json:"image_url,omitempty"`
	Items    []MenuItem `json:"items"`
}

// MenuItem is the customer view of a product. Cost price and stock
// thresholds are not exposed.
type MenuItem struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	IsVegetarian bool            `json:"is_vegetarian"`
	ImageURL     string          `json:"image_url,omitempty"`
}
