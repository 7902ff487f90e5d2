package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

// UserService manages staff accounts within a theater.
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// CreateUser creates a staff account and optionally assigns roles.
func (s *UserService) CreateUser(ctx context.Context, theaterID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, theaterID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "A user with this username already exists")
	}

	var user *identity.User
	if req.Activate {
		user, err = identity.NewActiveUser(theaterID, req.Username, req.Password)
	} else {
		user, err = identity.NewUser(theaterID, req.Username, req.Password)
	}
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if len(req.RoleIDs) > 0 {
		if err := s.verifyRoles(ctx, theaterID, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(user.RoleIDs) > 0 {
		if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user created",
		zap.String("theater_id", theaterID.String()),
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()),
	)
	return ToUserResponse(user), nil
}

// GetUser returns a single user scoped to the theater.
func (s *UserService) GetUser(ctx context.Context, theaterID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ListUsers returns a page of users matching the filter.
func (s *UserService) ListUsers(ctx context.Context, theaterID uuid.UUID, filter identity.UserFilter) ([]*UserResponse, int64, error) {
	users, total, err := s.userRepo.FindAll(ctx, theaterID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses, total, nil
}

// UpdateUser applies a partial update to the user's profile.
func (s *UserService) UpdateUser(ctx context.Context, theaterID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ActivateUser enables a pending or deactivated account.
func (s *UserService) ActivateUser(ctx context.Context, theaterID, userID uuid.UUID) error {
	return s.transition(ctx, theaterID, userID, (*identity.User).Activate)
}

// DeactivateUser disables an account without deleting it.
func (s *UserService) DeactivateUser(ctx context.Context, theaterID, userID uuid.UUID) error {
	return s.transition(ctx, theaterID, userID, (*identity.User).Deactivate)
}

// UnlockUser clears a login lockout.
func (s *UserService) UnlockUser(ctx context.Context, theaterID, userID uuid.UUID) error {
	return s.transition(ctx, theaterID, userID, (*identity.User).Unlock)
}

// DeleteUser removes the account and its role assignments.
func (s *UserService) DeleteUser(ctx context.Context, theaterID, userID uuid.UUID) error {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("user deleted",
		zap.String("theater_id", theaterID.String()),
		zap.String("username", user.Username),
	)
	return nil
}

// ChangePassword lets a user change their own password. The old
// password must verify.
func (s *UserService) ChangePassword(ctx context.Context, theaterID, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

// ResetPassword sets a new password administratively and forces a
// change on next login.
func (s *UserService) ResetPassword(ctx context.Context, theaterID, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	user.ForcePasswordChange()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	s.logger.Info("password reset",
		zap.String("theater_id", theaterID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// AssignRoles replaces the user's role assignments.
func (s *UserService) AssignRoles(ctx context.Context, theaterID, userID uuid.UUID, req AssignRolesRequest) (*UserResponse, error) {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.verifyRoles(ctx, theaterID, req.RoleIDs); err != nil {
		return nil, err
	}
	if err := user.SetRoles(req.RoleIDs); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (s *UserService) transition(ctx context.Context, theaterID, userID uuid.UUID, op func(*identity.User) error) error {
	user, err := s.findScoped(ctx, theaterID, userID)
	if err != nil {
		return err
	}
	if err := op(user); err != nil {
		return err
	}
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) findScoped(ctx context.Context, theaterID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TheaterID != theaterID {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

// verifyRoles ensures every role ID exists and belongs to the theater.
func (s *UserService) verifyRoles(ctx context.Context, theaterID uuid.UUID, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]bool, len(roles))
	for _, role := range roles {
		if role.TheaterID != theaterID {
			return shared.NewDomainError("ROLE_NOT_FOUND", "Role does not belong to this theater")
		}
		found[role.ID] = true
	}
	for _, id := range roleIDs {
		if !found[id] {
			return shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
		}
	}
	return nil
}
