package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
)

// ProductService manages the product catalog. Every write invalidates
// the customer menu cache.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	menu         *MenuService
	logger       *zap.Logger
}

func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	menu *MenuService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		menu:         menu,
		logger:       logger,
	}
}

// CreateProduct creates a sellable item.
func (s *ProductService) CreateProduct(ctx context.Context, theaterID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, theaterID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PRODUCT_CODE_EXISTS", "A product with this code already exists")
	}

	if req.CategoryID != nil {
		if err := s.verifyCategory(ctx, theaterID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(theaterID, req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(product.Name, req.Description); err != nil {
			return nil, err
		}
	}
	product.SetCategory(req.CategoryID)
	if err := product.SetPrices(req.Price, req.CostPrice); err != nil {
		return nil, err
	}
	if err := product.SetMinThreshold(req.MinThreshold); err != nil {
		return nil, err
	}
	if err := product.SetShelfLife(req.ShelfLifeDays); err != nil {
		return nil, err
	}
	product.SetVegetarian(req.IsVegetarian)
	if req.ImageURL != "" {
		if err := product.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	product.SetSortOrder(req.SortOrder)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.menu.invalidate(ctx, theaterID)

	s.logger.Info("product created",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", product.Code),
	)
	return ToProductResponse(product), nil
}

// GetProduct returns a single product scoped to the theater.
func (s *ProductService) GetProduct(ctx context.Context, theaterID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTheater(ctx, theaterID, productID)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// ListProducts returns a page of products matching the filter.
func (s *ProductService) ListProducts(ctx context.Context, theaterID uuid.UUID, filter catalog.ProductFilter) ([]*ProductResponse, int64, error) {
	products, total, err := s.productRepo.FindAll(ctx, theaterID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*ProductResponse, len(products))
	for i, product := range products {
		responses[i] = ToProductResponse(product)
	}
	return responses, total, nil
}

// ListByCategory returns the products of one category.
func (s *ProductService) ListByCategory(ctx context.Context, theaterID, categoryID uuid.UUID) ([]*ProductResponse, error) {
	products, err := s.productRepo.FindByCategory(ctx, theaterID, categoryID)
	if err != nil {
		return nil, err
	}
	responses := make([]*ProductResponse, len(products))
	for i, product := range products {
		responses[i] = ToProductResponse(product)
	}
	return responses, nil
}

// UpdateProduct applies a partial update.
func (s *ProductService) UpdateProduct(ctx context.Context, theaterID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTheater(ctx, theaterID, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := product.Update(name, description); err != nil {
		return nil, err
	}

	if req.ClearCategory {
		product.SetCategory(nil)
	} else if req.CategoryID != nil {
		if err := s.verifyCategory(ctx, theaterID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.Price != nil || req.CostPrice != nil {
		price := product.Price
		costPrice := product.CostPrice
		if req.Price != nil {
			price = *req.Price
		}
		if req.CostPrice != nil {
			costPrice = *req.CostPrice
		}
		if err := product.SetPrices(price, costPrice); err != nil {
			return nil, err
		}
	}
	if req.MinThreshold != nil {
		if err := product.SetMinThreshold(*req.MinThreshold); err != nil {
			return nil, err
		}
	}
	if req.ShelfLifeDays != nil {
		if err := product.SetShelfLife(*req.ShelfLifeDays); err != nil {
			return nil, err
		}
	}
	if req.IsVegetarian != nil {
		product.SetVegetarian(*req.IsVegetarian)
	}
	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.menu.invalidate(ctx, theaterID)
	return ToProductResponse(product), nil
}

// ActivateProduct puts the product back on sale.
func (s *ProductService) ActivateProduct(ctx context.Context, theaterID, productID uuid.UUID) error {
	return s.transition(ctx, theaterID, productID, (*catalog.Product).Activate)
}

// DeactivateProduct takes the product off sale temporarily.
func (s *ProductService) DeactivateProduct(ctx context.Context, theaterID, productID uuid.UUID) error {
	return s.transition(ctx, theaterID, productID, (*catalog.Product).Deactivate)
}

// DiscontinueProduct retires the product permanently. Its stock history
// remains readable.
func (s *ProductService) DiscontinueProduct(ctx context.Context, theaterID, productID uuid.UUID) error {
	return s.transition(ctx, theaterID, productID, (*catalog.Product).Discontinue)
}

// DeleteProduct removes the product entirely.
func (s *ProductService) DeleteProduct(ctx context.Context, theaterID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTheater(ctx, theaterID, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.menu.invalidate(ctx, theaterID)

	s.logger.Info("product deleted",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", product.Code),
	)
	return nil
}

func (s *ProductService) transition(ctx context.Context, theaterID, productID uuid.UUID, op func(*catalog.Product) error) error {
	product, err := s.productRepo.FindByIDForTheater(ctx, theaterID, productID)
	if err != nil {
		return err
	}
	if err := op(product); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	s.menu.invalidate(ctx, theaterID)
	return nil
}

func (s *ProductService) verifyCategory(ctx context.Context, theaterID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
	}
	if category.TheaterID != theaterID {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not belong to this theater")
	}
	return nil
}
