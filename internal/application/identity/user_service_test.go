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

type userFixture struct {
	service *UserService
	users   *fakeUserRepo
	roles   *fakeRoleRepo
	theater uuid.UUID
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	return &userFixture{
		service: NewUserService(users, roles, zap.NewNop()),
		users:   users,
		roles:   roles,
		theater: uuid.New(),
	}
}

func (f *userFixture) addRole(t *testing.T, theaterID uuid.UUID, code string) *identity.Role {
	t.Helper()
	role, err := identity.NewRole(theaterID, code, code)
	require.NoError(t, err)
	require.NoError(t, f.roles.Create(context.Background(), role))
	return role
}

func TestCreateUser(t *testing.T) {
	f := newUserFixture(t)
	role := f.addRole(t, f.theater, "CASHIER")

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username:    "bob",
		Password:    "S3cret-password",
		DisplayName: "Bob",
		Email:       "bob@example.com",
		RoleIDs:     []uuid.UUID{role.ID},
		Activate:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)
	assert.Equal(t, string(identity.UserStatusActive), resp.Status)
	assert.Equal(t, []uuid.UUID{role.ID}, resp.RoleIDs)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	f := newUserFixture(t)

	req := CreateUserRequest{Username: "bob", Password: "S3cret-password"}
	_, err := f.service.CreateUser(context.Background(), f.theater, req)
	require.NoError(t, err)

	_, err = f.service.CreateUser(context.Background(), f.theater, req)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "USERNAME_EXISTS", domainErr.Code)
}

func TestCreateUserRejectsForeignRole(t *testing.T) {
	f := newUserFixture(t)
	foreign := f.addRole(t, uuid.New(), "CASHIER")

	_, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob",
		Password: "S3cret-password",
		RoleIDs:  []uuid.UUID{foreign.ID},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROLE_NOT_FOUND", domainErr.Code)
}

func TestUserLookupScopedToTheater(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob", Password: "S3cret-password",
	})
	require.NoError(t, err)

	_, err = f.service.GetUser(context.Background(), uuid.New(), resp.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob", Password: "S3cret-password", Activate: true,
	})
	require.NoError(t, err)

	err = f.service.ChangePassword(context.Background(), f.theater, resp.ID, ChangePasswordRequest{
		OldPassword: "S3cret-password",
		NewPassword: "An0ther-password",
	})
	require.NoError(t, err)

	user, err := f.users.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("An0ther-password"))
	assert.False(t, user.VerifyPassword("S3cret-password"))
}

func TestResetPasswordForcesChange(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob", Password: "S3cret-password", Activate: true,
	})
	require.NoError(t, err)

	err = f.service.ResetPassword(context.Background(), f.theater, resp.ID, ResetPasswordRequest{
		NewPassword: "Temp0rary-password",
	})
	require.NoError(t, err)

	user, err := f.users.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, user.MustChangePassword)
	assert.True(t, user.VerifyPassword("Temp0rary-password"))
}

func TestAssignRolesReplacesSet(t *testing.T) {
	f := newUserFixture(t)
	first := f.addRole(t, f.theater, "CASHIER")
	second := f.addRole(t, f.theater, "MANAGER")

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob", Password: "S3cret-password",
		RoleIDs: []uuid.UUID{first.ID},
	})
	require.NoError(t, err)

	updated, err := f.service.AssignRoles(context.Background(), f.theater, resp.ID, AssignRolesRequest{
		RoleIDs: []uuid.UUID{second.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, updated.RoleIDs)
}

func TestDeactivateAndActivateUser(t *testing.T) {
	f := newUserFixture(t)

	resp, err := f.service.CreateUser(context.Background(), f.theater, CreateUserRequest{
		Username: "bob", Password: "S3cret-password", Activate: true,
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeactivateUser(context.Background(), f.theater, resp.ID))
	user, err := f.users.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.False(t, user.IsActive())

	require.NoError(t, f.service.ActivateUser(context.Background(), f.theater, resp.ID))
	assert.True(t, user.IsActive())
}
