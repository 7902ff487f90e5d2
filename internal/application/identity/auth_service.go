package identity

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/infrastructure/auth"
)

// AuthServiceConfig holds the lockout policy.
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns the default lockout policy.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles login, token refresh and logout.
type AuthService struct {
	theaterRepo identity.TheaterRepository
	userRepo    identity.UserRepository
	roleRepo    identity.RoleRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	config      AuthServiceConfig
	logger      *zap.Logger
}

func NewAuthService(
	theaterRepo identity.TheaterRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		theaterRepo: theaterRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		config:      config,
		logger:      logger,
	}
}

// Login authenticates a staff account and returns a token pair. The
// theater code scopes the username lookup, so the same username can
// exist at different theaters.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	theater, err := s.theaterRepo.FindByCode(ctx, input.TheaterCode)
	if err != nil {
		s.logger.Warn("login with unknown theater code", zap.String("theater_code", input.TheaterCode))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}
	if !theater.IsActive() {
		return nil, shared.NewDomainError("THEATER_INACTIVE", "This theater is not accepting logins")
	}

	user, err := s.userRepo.FindByUsername(ctx, theater.ID, input.Username)
	if err != nil {
		s.logger.Warn("login with unknown username",
			zap.String("theater_code", input.TheaterCode),
			zap.String("username", input.Username),
		)
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked, try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("persist failed login attempt", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts),
			)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts, account has been locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	roleCodes, permissions, err := s.collectGrants(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("load user grants", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TheaterID:   user.TheaterID,
		UserID:      user.ID,
		Username:    user.Username,
		RoleCodes:   roleCodes,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// The login itself succeeded, only the bookkeeping failed.
		s.logger.Error("persist successful login", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("theater_code", input.TheaterCode),
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()),
	)

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		MustChangePassword:    user.MustChangePassword,
		User: UserInfo{
			ID:          user.ID,
			TheaterID:   user.TheaterID,
			Username:    user.Username,
			DisplayName: user.GetDisplayNameOrUsername(),
			Email:       user.Email,
			RoleCodes:   roleCodes,
		},
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// Permissions are reloaded so role changes take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	if revoked, err := s.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		s.logger.Error("check token revocation", zap.Error(err))
	} else if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}
	userRevoked, err := s.blacklist.AreUserTokensRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		s.logger.Error("check user token revocation", zap.Error(err))
	} else if userRevoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Session has been terminated")
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Account no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	roleCodes, permissions, err := s.collectGrants(ctx, user.RoleIDs)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user permissions")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TheaterID:   user.TheaterID,
		UserID:      user.ID,
		Username:    user.Username,
		RoleCodes:   roleCodes,
		Permissions: permissions,
	})
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate tokens")
	}

	// The old refresh token is single-use.
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("revoke used refresh token", zap.Error(err))
	}

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		MustChangePassword:    user.MustChangePassword,
		User: UserInfo{
			ID:          user.ID,
			TheaterID:   user.TheaterID,
			Username:    user.Username,
			DisplayName: user.GetDisplayNameOrUsername(),
			Email:       user.Email,
			RoleCodes:   roleCodes,
		},
	}, nil
}

// Logout revokes the presented access token (and its refresh token via
// the user timestamp when requested).
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, allSessions bool) error {
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	if allSessions {
		return s.blacklist.RevokeUserTokens(ctx, claims.UserID, s.jwtService.RefreshTokenExpiration())
	}
	return nil
}

// collectGrants resolves role codes and the deduplicated permission
// set for the given role IDs.
func (s *AuthService) collectGrants(ctx context.Context, roleIDs []uuid.UUID) ([]string, []string, error) {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return nil, nil, err
	}

	roleCodes := make([]string, 0, len(roles))
	seen := make(map[string]struct{})
	for _, role := range roles {
		if !role.IsEnabled {
			continue
		}
		roleCodes = append(roleCodes, role.Code)
		for _, perm := range role.Permissions {
			seen[perm.Code] = struct{}{}
		}
	}

	permissions := make([]string, 0, len(seen))
	for code := range seen {
		permissions = append(permissions, code)
	}
	sort.Strings(permissions)
	return roleCodes, permissions, nil
}
