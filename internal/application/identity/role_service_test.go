package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

func newRoleService() (*RoleService, *fakeRoleRepo, uuid.UUID) {
	roles := newFakeRoleRepo()
	return NewRoleService(roles, zap.NewNop()), roles, uuid.New()
}

func TestCreateRoleWithPermissions(t *testing.T) {
	service, _, theaterID := newRoleService()

	resp, err := service.CreateRole(context.Background(), theaterID, CreateRoleRequest{
		Code:        "KITCHEN",
		Name:        "Kitchen Staff",
		Permissions: []string{"order:read", "stock:write"},
	})
	require.NoError(t, err)
	assert.Equal(t, "KITCHEN", resp.Code)
	assert.ElementsMatch(t, []string{"order:read", "stock:write"}, resp.Permissions)
}

func TestCreateRoleDuplicateCode(t *testing.T) {
	service, _, theaterID := newRoleService()

	req := CreateRoleRequest{Code: "KITCHEN", Name: "Kitchen Staff"}
	_, err := service.CreateRole(context.Background(), theaterID, req)
	require.NoError(t, err)

	_, err = service.CreateRole(context.Background(), theaterID, req)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROLE_CODE_EXISTS", domainErr.Code)
}

func TestUpdateRoleReplacesPermissions(t *testing.T) {
	service, _, theaterID := newRoleService()

	created, err := service.CreateRole(context.Background(), theaterID, CreateRoleRequest{
		Code:        "KITCHEN",
		Name:        "Kitchen Staff",
		Permissions: []string{"order:read"},
	})
	require.NoError(t, err)

	perms := []string{"stock:read", "stock:write"}
	updated, err := service.UpdateRole(context.Background(), theaterID, created.ID, UpdateRoleRequest{
		Permissions: &perms,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, perms, updated.Permissions)
}

func TestDeleteSystemRoleRejected(t *testing.T) {
	service, roles, theaterID := newRoleService()

	system, err := identity.NewSystemRole(theaterID, "ADMIN", "Administrator")
	require.NoError(t, err)
	require.NoError(t, roles.Create(context.Background(), system))

	err = service.DeleteRole(context.Background(), theaterID, system.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SYSTEM_ROLE", domainErr.Code)
}

func TestRoleScopedToTheater(t *testing.T) {
	service, _, theaterID := newRoleService()

	created, err := service.CreateRole(context.Background(), theaterID, CreateRoleRequest{
		Code: "KITCHEN", Name: "Kitchen Staff",
	})
	require.NoError(t, err)

	_, err = service.GetRole(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
