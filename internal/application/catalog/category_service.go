package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/domain/shared"
)

// CategoryService manages menu categories. Every write invalidates the
// customer menu cache.
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	menu         *MenuService
	logger       *zap.Logger
}

func NewCategoryService(categoryRepo catalog.CategoryRepository, menu *MenuService, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		menu:         menu,
		logger:       logger,
	}
}

// CreateCategory creates a menu category.
func (s *CategoryService) CreateCategory(ctx context.Context, theaterID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, theaterID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CATEGORY_CODE_EXISTS", "A category with this code already exists")
	}

	category, err := catalog.NewCategory(theaterID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := category.Update(category.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		if err := category.SetImageURL(req.ImageURL); err != nil {
			return nil, err
		}
	}
	category.SetSortOrder(req.SortOrder)

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.menu.invalidate(ctx, theaterID)

	s.logger.Info("category created",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", category.Code),
	)
	return ToCategoryResponse(category), nil
}

// GetCategory returns a single category scoped to the theater.
func (s *CategoryService) GetCategory(ctx context.Context, theaterID, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.findScoped(ctx, theaterID, categoryID)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// ListCategories returns every category of the theater in display order.
func (s *CategoryService) ListCategories(ctx context.Context, theaterID uuid.UUID) ([]*CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	responses := make([]*CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = ToCategoryResponse(category)
	}
	return responses, nil
}

// UpdateCategory applies a partial update.
func (s *CategoryService) UpdateCategory(ctx context.Context, theaterID, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.findScoped(ctx, theaterID, categoryID)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := category.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := category.Update(name, description); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		if err := category.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.menu.invalidate(ctx, theaterID)
	return ToCategoryResponse(category), nil
}

// ActivateCategory puts the category back on the menu.
func (s *CategoryService) ActivateCategory(ctx context.Context, theaterID, categoryID uuid.UUID) error {
	return s.transition(ctx, theaterID, categoryID, (*catalog.Category).Activate)
}

// DeactivateCategory hides the category from the menu.
func (s *CategoryService) DeactivateCategory(ctx context.Context, theaterID, categoryID uuid.UUID) error {
	return s.transition(ctx, theaterID, categoryID, (*catalog.Category).Deactivate)
}

// DeleteCategory removes an empty category. Categories still holding
// products cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, theaterID, categoryID uuid.UUID) error {
	category, err := s.findScoped(ctx, theaterID, categoryID)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, category.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category still has products assigned")
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		return err
	}
	s.menu.invalidate(ctx, theaterID)

	s.logger.Info("category deleted",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", category.Code),
	)
	return nil
}

func (s *CategoryService) transition(ctx context.Context, theaterID, categoryID uuid.UUID, op func(*catalog.Category) error) error {
	category, err := s.findScoped(ctx, theaterID, categoryID)
	if err != nil {
		return err
	}
	if err := op(category); err != nil {
		return err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.menu.invalidate(ctx, theaterID)
	return nil
}

func (s *CategoryService) findScoped(ctx context.Context, theaterID, categoryID uuid.UUID) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return category, nil
}
