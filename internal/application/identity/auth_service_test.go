package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/config"
)

type authFixture struct {
	service  *AuthService
	theaters *fakeTheaterRepo
	users    *fakeUserRepo
	roles    *fakeRoleRepo
	theater  *identity.Theater
	user     *identity.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	theaters := newFakeTheaterRepo()
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()

	theater, err := identity.NewTheater("MAIN", "Main Theater Canteen")
	require.NoError(t, err)
	require.NoError(t, theaters.Create(context.Background(), theater))

	role, err := identity.NewRole(theater.ID, "CASHIER", "Cashier")
	require.NoError(t, err)
	require.NoError(t, role.GrantPermissionByCode("order:write"))
	require.NoError(t, role.GrantPermissionByCode("order:read"))
	require.NoError(t, roles.Create(context.Background(), role))

	user, err := identity.NewActiveUser(theater.ID, "alice", "S3cret-password")
	require.NoError(t, err)
	require.NoError(t, user.SetRoles([]uuid.UUID{role.ID}))
	require.NoError(t, users.Create(context.Background(), user))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-which-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "canteen-test",
	})

	service := NewAuthService(
		theaters, users, roles,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		DefaultAuthServiceConfig(),
		zap.NewNop(),
	)
	return &authFixture{
		service:  service,
		theaters: theaters,
		users:    users,
		roles:    roles,
		theater:  theater,
		user:     user,
	}
}

func loginInput() LoginInput {
	return LoginInput{
		TheaterCode: "MAIN",
		Username:    "alice",
		Password:    "S3cret-password",
		IP:          "10.0.0.1",
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.service.Login(context.Background(), loginInput())
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, []string{"CASHIER"}, result.User.RoleCodes)
	assert.NotNil(t, f.user.LastLoginAt)
	assert.Equal(t, "10.0.0.1", f.user.LastLoginIP)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	input := loginInput()
	input.Password = "wrong-password"
	_, err := f.service.Login(context.Background(), input)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	assert.Equal(t, 1, f.user.FailedAttempts)
}

func TestLoginUnknownTheaterOrUser(t *testing.T) {
	f := newAuthFixture(t)

	input := loginInput()
	input.TheaterCode = "NOPE"
	_, err := f.service.Login(context.Background(), input)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)

	input = loginInput()
	input.Username = "nobody"
	_, err = f.service.Login(context.Background(), input)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	f := newAuthFixture(t)

	input := loginInput()
	input.Password = "wrong-password"
	for i := 0; i < DefaultAuthServiceConfig().MaxLoginAttempts; i++ {
		_, err := f.service.Login(context.Background(), input)
		require.Error(t, err)
	}
	assert.True(t, f.user.IsLocked())

	// Even the right password is rejected while locked.
	_, err := f.service.Login(context.Background(), loginInput())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestLoginInactiveTheater(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.theater.Suspend())

	_, err := f.service.Login(context.Background(), loginInput())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "THEATER_INACTIVE", domainErr.Code)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	f := newAuthFixture(t)

	login, err := f.service.Login(context.Background(), loginInput())
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "alice", refreshed.User.Username)

	// The consumed refresh token cannot be replayed.
	_, err = f.service.Refresh(context.Background(), login.RefreshToken)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)

	login, err := f.service.Login(context.Background(), loginInput())
	require.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), login.AccessToken)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}

func TestLoginAccessTokenCarriesPermissions(t *testing.T) {
	f := newAuthFixture(t)

	login, err := f.service.Login(context.Background(), loginInput())
	require.NoError(t, err)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-which-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "canteen-test",
	})
	claims, err := jwtService.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.HasPermission("order:write"))
	assert.False(t, claims.HasPermission("stock:write"))
}
