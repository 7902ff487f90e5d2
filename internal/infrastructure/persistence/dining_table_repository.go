package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/ordering"
	"github.com/canteen/backend/internal/domain/shared"
)

// GormDiningTableRepository implements ordering.DiningTableRepository using GORM.
type GormDiningTableRepository struct {
	db *gorm.DB
}

func NewGormDiningTableRepository(db *gorm.DB) *GormDiningTableRepository {
	return &GormDiningTableRepository{db: db}
}

func (r *GormDiningTableRepository) Create(ctx context.Context, table *ordering.DiningTable) error {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return err
	}
	table.MarkVersionSaved()
	return nil
}

func (r *GormDiningTableRepository) Update(ctx context.Context, table *ordering.DiningTable) error {
	result := r.db.WithContext(ctx).
		Model(&ordering.DiningTable{}).
		Where("id = ? AND version = ?", table.ID, table.Version-1).
		Select("*").
		Omit("id", "created_at", "theater_id").
		Updates(table)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	table.MarkVersionSaved()
	return nil
}

func (r *GormDiningTableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ordering.DiningTable{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDiningTableRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.DiningTable, error) {
	var table ordering.DiningTable
	if err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (r *GormDiningTableRepository) FindByQRToken(ctx context.Context, token string) (*ordering.DiningTable, error) {
	var table ordering.DiningTable
	if err := r.db.WithContext(ctx).
		Where("qr_token = ?", token).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (r *GormDiningTableRepository) FindByNumber(ctx context.Context, theaterID uuid.UUID, number string) (*ordering.DiningTable, error) {
	var table ordering.DiningTable
	if err := r.db.WithContext(ctx).
		Where("theater_id = ? AND number = ?", theaterID, number).
		First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (r *GormDiningTableRepository) FindAll(ctx context.Context, theaterID uuid.UUID) ([]*ordering.DiningTable, error) {
	var tables []*ordering.DiningTable
	if err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("zone ASC, number ASC").
		Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *GormDiningTableRepository) ExistsByNumber(ctx context.Context, theaterID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ordering.DiningTable{}).
		Where("theater_id = ? AND number = ?", theaterID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ ordering.DiningTableRepository = (*GormDiningTableRepository)(nil)
