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

// GormRoleRepository implements identity.RoleRepository using GORM.
type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return err
	}
	role.MarkVersionSaved()
	return nil
}

func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	result := r.db.WithContext(ctx).
		Model(&identity.Role{}).
		Where("id = ? AND version = ?", role.ID, role.Version-1).
		Select("*").
		Omit("id", "created_at", "theater_id").
		Updates(role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	role.MarkVersionSaved()
	return nil
}

func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&identity.UserRole{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&identity.Role{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.LoadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) FindByCode(ctx context.Context, theaterID uuid.UUID, code string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).
		Where("theater_id = ? AND code = ?", theaterID, strings.ToUpper(code)).
		First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.LoadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []*identity.Role
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&roles).Error; err != nil {
		return nil, err
	}
	for _, role := range roles {
		if err := r.LoadPermissions(ctx, role); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (r *GormRoleRepository) FindAll(ctx context.Context, theaterID uuid.UUID) ([]*identity.Role, error) {
	var roles []*identity.Role
	if err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("sort_order ASC, code ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	for _, role := range roles {
		if err := r.LoadPermissions(ctx, role); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (r *GormRoleRepository) ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Role{}).
		Where("theater_id = ? AND code = ?", theaterID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SavePermissions replaces the role's permission grants.
func (r *GormRoleRepository) SavePermissions(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", role.ID).Error; err != nil {
			return err
		}
		if len(role.Permissions) == 0 {
			return nil
		}
		rows := make([]identity.RolePermission, 0, len(role.Permissions))
		for _, perm := range role.Permissions {
			rows = append(rows, identity.RolePermission{
				RoleID:      role.ID,
				Code:        perm.Code,
				TheaterID:   role.TheaterID,
				Resource:    perm.Resource,
				Action:      perm.Action,
				Description: perm.Description,
			})
		}
		return tx.Create(&rows).Error
	})
}

// LoadPermissions populates role.Permissions from the join table.
func (r *GormRoleRepository) LoadPermissions(ctx context.Context, role *identity.Role) error {
	var rows []identity.RolePermission
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	role.Permissions = make([]identity.Permission, 0, len(rows))
	for _, row := range rows {
		role.Permissions = append(role.Permissions, identity.Permission{
			Code:        row.Code,
			Resource:    row.Resource,
			Action:      row.Action,
			Description: row.Description,
		})
	}
	return nil
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
