package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

// GormTheaterRepository implements identity.TheaterRepository using GORM.
type GormTheaterRepository struct {
	db *gorm.DB
}

func NewGormTheaterRepository(db *gorm.DB) *GormTheaterRepository {
	return &GormTheaterRepository{db: db}
}

func (r *GormTheaterRepository) Create(ctx context.Context, theater *identity.Theater) error {
	if err := r.db.WithContext(ctx).Create(theater).Error; err != nil {
		return err
	}
	theater.MarkVersionSaved()
	return nil
}

func (r *GormTheaterRepository) Update(ctx context.Context, theater *identity.Theater) error {
	result := r.db.WithContext(ctx).
		Model(&identity.Theater{}).
		Where("id = ? AND version = ?", theater.ID, theater.Version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(theater)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	theater.MarkVersionSaved()
	return nil
}

func (r *GormTheaterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.Theater{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTheaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Theater, error) {
	var theater identity.Theater
	if err := r.db.WithContext(ctx).First(&theater, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &theater, nil
}

func (r *GormTheaterRepository) FindByCode(ctx context.Context, code string) (*identity.Theater, error) {
	var theater identity.Theater
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&theater).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &theater, nil
}

func (r *GormTheaterRepository) FindAll(ctx context.Context, filter identity.TheaterFilter) ([]*identity.Theater, int64, error) {
	query := r.db.WithContext(ctx).Model(&identity.Theater{})

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var theaters []*identity.Theater
	if err := query.
		Order("code ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&theaters).Error; err != nil {
		return nil, 0, err
	}
	return theaters, total, nil
}

func (r *GormTheaterRepository) FindActive(ctx context.Context) ([]*identity.Theater, error) {
	var theaters []*identity.Theater
	if err := r.db.WithContext(ctx).
		Where("status = ?", identity.TheaterStatusActive).
		Order("code ASC").
		Find(&theaters).Error; err != nil {
		return nil, err
	}
	return theaters, nil
}

func (r *GormTheaterRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Theater{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.TheaterRepository = (*GormTheaterRepository)(nil)
