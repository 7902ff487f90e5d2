package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/domain/stock"
)

// uniqueViolation reports whether err is a PostgreSQL unique-index violation
func uniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GormMonthlyStockRepository implements stock.MonthlyStockRepository
// using GORM. The document and its entries are written as one unit; a
// version check on the document row guards the read-modify-write cycle.
type GormMonthlyStockRepository struct {
	db *gorm.DB
}

func NewGormMonthlyStockRepository(db *gorm.DB) *GormMonthlyStockRepository {
	return &GormMonthlyStockRepository{db: db}
}

func (r *GormMonthlyStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.MonthlyStock, error) {
	var doc stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *GormMonthlyStockRepository) FindByIDForTheater(ctx context.Context, theaterID, id uuid.UUID) (*stock.MonthlyStock, error) {
	var doc stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		Where("theater_id = ? AND id = ?", theaterID, id).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *GormMonthlyStockRepository) FindByMonth(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*stock.MonthlyStock, error) {
	var doc stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		Where("theater_id = ? AND product_id = ? AND year = ? AND month = ?", theaterID, productID, year, month).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *GormMonthlyStockRepository) FindLatestBefore(ctx context.Context, theaterID, productID uuid.UUID, year, month int) (*stock.MonthlyStock, error) {
	var doc stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Where("theater_id = ? AND product_id = ? AND (year < ? OR (year = ? AND month < ?))",
			theaterID, productID, year, year, month).
		Order("year DESC, month DESC").
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *GormMonthlyStockRepository) FindFollowingMonths(ctx context.Context, theaterID, productID uuid.UUID, year, month int) ([]stock.MonthlyStock, error) {
	var docs []stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		Where("theater_id = ? AND product_id = ? AND (year > ? OR (year = ? AND month > ?))",
			theaterID, productID, year, year, month).
		Order("year ASC, month ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *GormMonthlyStockRepository) FindAllForMonth(ctx context.Context, theaterID uuid.UUID, year, month int, filter shared.Filter) ([]stock.MonthlyStock, error) {
	query := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		Where("theater_id = ? AND year = ? AND month = ?", theaterID, year, month)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var docs []stock.MonthlyStock
	if err := query.Order("product_id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *GormMonthlyStockRepository) CountForMonth(ctx context.Context, theaterID uuid.UUID, year, month int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.MonthlyStock{}).
		Where("theater_id = ? AND year = ? AND month = ?", theaterID, year, month).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMonthlyStockRepository) FindAllForTheater(ctx context.Context, theaterID uuid.UUID) ([]stock.MonthlyStock, error) {
	var docs []stock.MonthlyStock
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("entry_date ASC, position ASC")
		}).
		Where("theater_id = ?", theaterID).
		Order("product_id ASC, year ASC, month ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save writes the whole document. A version of 1 with no persisted row
// inserts; anything else updates the document row guarded by the
// previous version and replaces the entry rows.
func (r *GormMonthlyStockRepository) Save(ctx context.Context, doc *stock.MonthlyStock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&stock.MonthlyStock{}).
			Where("id = ?", doc.ID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			if err := tx.Omit("Entries").Create(doc).Error; err != nil {
				// two first-touch writers can both pass the existence
				// check; the unique month index rejects the loser, which
				// must surface like any other lost race so callers retry
				if uniqueViolation(err) {
					return shared.ErrConcurrencyConflict
				}
				return err
			}
		} else {
			result := tx.
				Model(&stock.MonthlyStock{}).
				Where("id = ? AND version = ?", doc.ID, doc.Version-1).
				Select("*").
				Omit("id", "created_at", "theater_id").
				Updates(doc)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Delete(&stock.StockEntry{}, "monthly_stock_id = ?", doc.ID).Error; err != nil {
				return err
			}
		}

		if len(doc.Entries) > 0 {
			if err := tx.Create(&doc.Entries).Error; err != nil {
				return err
			}
		}
		doc.MarkVersionSaved()
		return nil
	})
}

func (r *GormMonthlyStockRepository) Delete(ctx context.Context, theaterID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&stock.StockEntry{}, "monthly_stock_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&stock.MonthlyStock{}, "theater_id = ? AND id = ?", theaterID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ stock.MonthlyStockRepository = (*GormMonthlyStockRepository)(nil)
