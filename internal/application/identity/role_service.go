package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

// RoleService manages roles and their permission grants.
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

// CreateRole creates a custom role with an optional permission set.
func (s *RoleService) CreateRole(ctx context.Context, theaterID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, theaterID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ROLE_CODE_EXISTS", "A role with this code already exists")
	}

	role, err := identity.NewRole(theaterID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := role.Update(role.Name, req.Description); err != nil {
			return nil, err
		}
	}
	for _, code := range req.Permissions {
		if err := role.GrantPermissionByCode(code); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	if len(role.Permissions) > 0 {
		if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role created",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", role.Code),
	)
	return ToRoleResponse(role), nil
}

// GetRole returns a single role scoped to the theater.
func (s *RoleService) GetRole(ctx context.Context, theaterID, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.findScoped(ctx, theaterID, roleID)
	if err != nil {
		return nil, err
	}
	return ToRoleResponse(role), nil
}

// ListRoles returns every role of the theater ordered for display.
func (s *RoleService) ListRoles(ctx context.Context, theaterID uuid.UUID) ([]*RoleResponse, error) {
	roles, err := s.roleRepo.FindAll(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	responses := make([]*RoleResponse, len(roles))
	for i, role := range roles {
		responses[i] = ToRoleResponse(role)
	}
	return responses, nil
}

// UpdateRole renames a role and replaces its permission set when one
// is supplied. System roles only accept name changes.
func (s *RoleService) UpdateRole(ctx context.Context, theaterID, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.findScoped(ctx, theaterID, roleID)
	if err != nil {
		return nil, err
	}

	name := role.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := role.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := role.Update(name, description); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		perms := make([]identity.Permission, 0, len(*req.Permissions))
		for _, code := range *req.Permissions {
			perm, err := identity.NewPermissionFromCode(code)
			if err != nil {
				return nil, err
			}
			perms = append(perms, *perm)
		}
		if err := role.SetPermissions(perms); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	if req.Permissions != nil {
		if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
			return nil, err
		}
	}
	return ToRoleResponse(role), nil
}

// EnableRole re-enables a disabled role.
func (s *RoleService) EnableRole(ctx context.Context, theaterID, roleID uuid.UUID) error {
	return s.transition(ctx, theaterID, roleID, (*identity.Role).Enable)
}

// DisableRole disables a role without removing it from users.
func (s *RoleService) DisableRole(ctx context.Context, theaterID, roleID uuid.UUID) error {
	return s.transition(ctx, theaterID, roleID, (*identity.Role).Disable)
}

// DeleteRole removes a custom role. System roles cannot be deleted.
func (s *RoleService) DeleteRole(ctx context.Context, theaterID, roleID uuid.UUID) error {
	role, err := s.findScoped(ctx, theaterID, roleID)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	if err := s.roleRepo.Delete(ctx, role.ID); err != nil {
		return err
	}
	s.logger.Info("role deleted",
		zap.String("theater_id", theaterID.String()),
		zap.String("code", role.Code),
	)
	return nil
}

func (s *RoleService) transition(ctx context.Context, theaterID, roleID uuid.UUID, op func(*identity.Role) error) error {
	role, err := s.findScoped(ctx, theaterID, roleID)
	if err != nil {
		return err
	}
	if err := op(role); err != nil {
		return err
	}
	return s.roleRepo.Update(ctx, role)
}

func (s *RoleService) findScoped(ctx context.Context, theaterID, roleID uuid.UUID) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return role, nil
}
