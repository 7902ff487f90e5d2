package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canteen/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "canteen-backend",
	})
}

func testInput() GenerateTokenInput {
	return GenerateTokenInput{
		TheaterID:   uuid.New(),
		UserID:      uuid.New(),
		Username:    "cashier1",
		RoleCodes:   []string{"CASHIER"},
		Permissions: []string{"order:create", "order:read"},
	}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestService()
	input := testInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.TheaterID.String(), claims.TheaterID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "cashier1", claims.Username)
	assert.Equal(t, []string{"CASHIER"}, claims.RoleCodes)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	theaterID, err := claims.TheaterUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TheaterID, theaterID)

	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	// Refresh tokens carry identity only.
	assert.Empty(t, claims.Permissions)
}

func TestTokenTypeMismatch(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	// Access and refresh secrets are the same in the test config, so a
	// swapped token fails on the type claim rather than the signature.
	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-completely-different-secret-value!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "canteen-backend",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "canteen-backend",
	})
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestClaimsPermissions(t *testing.T) {
	claims := &Claims{Permissions: []string{"order:create", "stock:read"}}

	assert.True(t, claims.HasPermission("order:create"))
	assert.False(t, claims.HasPermission("stock:adjust"))
	assert.True(t, claims.HasAnyPermission("stock:adjust", "stock:read"))
	assert.False(t, claims.HasAnyPermission("stock:adjust", "report:export"))
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(testInput())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	ttl := claims.RemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	expired := &Claims{}
	assert.Equal(t, time.Duration(0), expired.RemainingTTL())
}
