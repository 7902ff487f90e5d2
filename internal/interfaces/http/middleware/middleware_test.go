package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "canteen-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, permissions ...string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TheaterID:   uuid.New(),
		UserID:      uuid.New(),
		Username:    "staff",
		RoleCodes:   []string{"MANAGER"},
		Permissions: permissions,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func authRouter(svc *auth.JWTService, blacklist auth.TokenBlacklist, cfg AuthConfig) *gin.Engine {
	r := gin.New()
	r.Use(Auth(svc, blacklist, cfg, zap.NewNop()))
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/public/menu", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAcceptsValidToken(t *testing.T) {
	svc := newJWTService()
	r := authRouter(svc, nil, AuthConfig{})

	w := doRequest(r, "/protected", issueToken(t, svc))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := authRouter(newJWTService(), nil, AuthConfig{})

	w := doRequest(r, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	r := authRouter(newJWTService(), nil, AuthConfig{})

	w := doRequest(r, "/protected", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthSkipsConfiguredPaths(t *testing.T) {
	r := authRouter(newJWTService(), nil, AuthConfig{
		SkipPaths:    []string{"/health"},
		SkipPrefixes: []string{"/public/"},
	})

	assert.Equal(t, http.StatusOK, doRequest(r, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/public/menu", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "").Code)
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	svc := newJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	r := authRouter(svc, blacklist, AuthConfig{})

	token := issueToken(t, svc)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.Revoke(t.Context(), claims.ID, time.Hour))

	w := doRequest(r, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
}

func TestAuthRejectsAfterUserWideRevocation(t *testing.T) {
	svc := newJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	r := authRouter(svc, blacklist, AuthConfig{})

	token := issueToken(t, svc)
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.NoError(t, blacklist.RevokeUserTokens(t.Context(), claims.UserID, time.Hour))

	w := doRequest(r, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermission(t *testing.T) {
	svc := newJWTService()
	r := gin.New()
	r.Use(Auth(svc, nil, AuthConfig{}, zap.NewNop()))
	r.GET("/stock", RequirePermission("stock:read"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	granted := doRequest(r, "/stock", issueToken(t, svc, "stock:read"))
	assert.Equal(t, http.StatusOK, granted.Code)

	denied := doRequest(r, "/stock", issueToken(t, svc, "catalog:read"))
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.Contains(t, denied.Body.String(), "FORBIDDEN")
}

func TestRequireAnyPermission(t *testing.T) {
	svc := newJWTService()
	r := gin.New()
	r.Use(Auth(svc, nil, AuthConfig{}, zap.NewNop()))
	r.GET("/orders", RequireAnyPermission("order:read", "order:manage"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, "/orders", issueToken(t, svc, "order:manage"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, "/", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDEchoedWhenPresent(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.HTTPConfig{
		CORSAllowOrigins: []string{"https://app.example.com"},
		CORSAllowMethods: []string{"GET", "POST"},
		CORSAllowHeaders: []string{"Authorization"},
	}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.HTTPConfig{CORSAllowOrigins: []string{"https://app.example.com"}}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, "/", "").Code)

	w := doRequest(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
