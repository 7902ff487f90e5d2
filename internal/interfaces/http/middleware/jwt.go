package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/infrastructure/auth"
	"github.com/canteen/backend/internal/infrastructure/logger"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// Context keys populated by Auth for downstream handlers.
const (
	ClaimsKey    = "jwt_claims"
	TheaterIDKey = "jwt_theater_id"
	UserIDKey    = "jwt_user_id"
)

// AuthConfig tells the Auth middleware which requests to pass through
// without a token.
type AuthConfig struct {
	SkipPaths    []string
	SkipPrefixes []string
}

// Auth validates the Bearer token, rejects revoked tokens and stores the
// claims on the request context. Blacklist lookups fail open: a broken
// Redis connection must not lock every user out.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, cfg AuthConfig, log *zap.Logger) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("token blacklist lookup failed",
					zap.String("jti", claims.ID),
					zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
				return
			}

			allRevoked, err := blacklist.AreUserTokensRevoked(c.Request.Context(), claims.UserID, claims.IssuedAtTime())
			if err != nil {
				log.Warn("user token revocation lookup failed",
					zap.String("user_id", claims.UserID),
					zap.Error(err))
			} else if allRevoked {
				abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(TheaterIDKey, claims.TheaterID)
		c.Set(UserIDKey, claims.UserID)

		ctx := c.Request.Context()
		ctxLog := logger.FromContext(ctx)
		ctx, ctxLog = logger.WithTheaterID(ctx, ctxLog, claims.TheaterID)
		ctx, _ = logger.WithUserID(ctx, ctxLog, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortUnauthorized(c, "TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortUnauthorized(c, "INVALID_TOKEN", "Wrong token type for this endpoint")
	case errors.Is(err, auth.ErrTokenRevoked):
		abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
	default:
		abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}

// ClaimsFromContext returns the authenticated claims stored by Auth.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
