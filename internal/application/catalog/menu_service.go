package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/infrastructure/cache"
)

// DefaultMenuTTL keeps the cached menu fresh enough for price changes
// while absorbing the customer read burst at meal times.
const DefaultMenuTTL = 5 * time.Minute

// MenuService renders the customer-facing menu: active products grouped
// by active category, served from cache when possible.
type MenuService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	cache        cache.MenuCache
	ttl          time.Duration
	logger       *zap.Logger
}

func NewMenuService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	menuCache cache.MenuCache,
	logger *zap.Logger,
) *MenuService {
	return &MenuService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        menuCache,
		ttl:          DefaultMenuTTL,
		logger:       logger,
	}
}

// GetMenu returns the menu for a theater. A cache failure falls back to
// building the menu from the database.
func (s *MenuService) GetMenu(ctx context.Context, theaterID uuid.UUID) (*MenuResponse, error) {
	if payload, err := s.cache.Get(ctx, theaterID); err != nil {
		s.logger.Warn("menu cache read failed", zap.Error(err))
	} else if payload != nil {
		var menu MenuResponse
		unmarshalErr := json.Unmarshal(payload, &menu)
		if unmarshalErr == nil {
			return &menu, nil
		}
		s.logger.Warn("menu cache held an unreadable payload", zap.Error(unmarshalErr))
	}

	menu, err := s.buildMenu(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(menu); err == nil {
		if err := s.cache.Set(ctx, theaterID, payload, s.ttl); err != nil {
			s.logger.Warn("menu cache write failed", zap.Error(err))
		}
	}
	return menu, nil
}

func (s *MenuService) buildMenu(ctx context.Context, theaterID uuid.UUID) (*MenuResponse, error) {
	categories, err := s.categoryRepo.FindActive(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindSellable(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID][]MenuItem)
	var uncategorized []MenuItem
	for _, product := range products {
		item := MenuItem{
			ID:           product.ID,
			Code:         product.Code,
			Name:         product.Name,
			Description:  product.Description,
			Unit:         product.Unit,
			Price:        product.Price,
			IsVegetarian: product.IsVegetarian,
			ImageURL:     product.ImageURL,
		}
		if product.CategoryID == nil {
			uncategorized = append(uncategorized, item)
			continue
		}
		byCategory[*product.CategoryID] = append(byCategory[*product.CategoryID], item)
	}

	menu := &MenuResponse{
		TheaterID:   theaterID,
		Categories:  make([]MenuCategory, 0, len(categories)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, category := range categories {
		items := byCategory[category.ID]
		if len(items) == 0 {
			continue
		}
		menu.Categories = append(menu.Categories, MenuCategory{
			ID:       category.ID,
			Code:     category.Code,
			Name:     category.Name,
			ImageURL: category.ImageURL,
			Items:    items,
		})
	}
	if len(uncategorized) > 0 {
		menu.Categories = append(menu.Categories, MenuCategory{
			Code:  "OTHER",
			Name:  "Other",
			Items: uncategorized,
		})
	}
	return menu, nil
}

// invalidate drops the cached menu. Failures are logged, not returned:
// a stale menu for one TTL window is acceptable, a failed write is not.
func (s *MenuService) invalidate(ctx context.Context, theaterID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, theaterID); err != nil {
		s.logger.Warn("menu cache invalidation failed",
			zap.String("theater_id", theaterID.String()),
			zap.Error(err),
		)
	}
}
