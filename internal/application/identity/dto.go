package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/canteen/backend/internal/domain/identity"
)

// LoginInput carries the credentials of a login attempt.
type LoginInput struct {
	TheaterCode string
	Username    string
	Password    string
	IP          string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	MustChangePassword    bool      `json:"must_change_password"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the identity block embedded in login responses.
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TheaterID   uuid.UUID `json:"theater_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	RoleCodes   []string  `json:"role_codes"`
}

// CreateUserRequest creates a staff account.
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=50"`
	Password    string      `json:"password" binding:"required,min=8,max=72"`
	Email       string      `json:"email" binding:"omitempty,email"`
	Phone       string      `json:"phone" binding:"omitempty,max=20"`
	DisplayName string      `json:"display_name" binding:"omitempty,max=100"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	Activate    bool        `json:"activate"`
}

// UpdateUserRequest updates mutable user fields.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,max=20"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
}

// ChangePasswordRequest carries a password change for the current user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ResetPasswordRequest lets an administrator set a user's password.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// AssignRolesRequest replaces a user's role assignments.
type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" binding:"required"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	TheaterID          uuid.UUID   `json:"theater_id"`
	Username           string      `json:"username"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	DisplayName        string      `json:"display_name"`
	Status             string      `json:"status"`
	RoleIDs            []uuid.UUID `json:"role_ids"`
	MustChangePassword bool        `json:"must_change_password"`
	LastLoginAt        *time.Time  `json:"last_login_at"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Version            int         `json:"version"`
}

// ToUserResponse converts a domain User to UserResponse.
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		TheaterID:          u.TheaterID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		DisplayName:        u.DisplayName,
		Status:             string(u.Status),
		RoleIDs:            u.RoleIDs,
		MustChangePassword: u.MustChangePassword,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		Version:            u.Version,
	}
}

// CreateRoleRequest creates a role.
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required,min=2,max=50"`
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description string   `json:"description" binding:"max=500"`
	Permissions []string `json:"permissions"`
	SortOrder   *int     `json:"sort_order"`
}

// UpdateRoleRequest updates a role's mutable fields.
type UpdateRoleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string   `json:"description" binding:"omitempty,max=500"`
	Permissions *[]string `json:"permissions"`
	SortOrder   *int      `json:"sort_order"`
}

// RoleResponse represents a role in API responses.
type RoleResponse struct {
	ID           uuid.UUID `json:"id"`
	TheaterID    uuid.UUID `json:"theater_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsSystemRole bool      `json:"is_system_role"`
	IsEnabled    bool      `json:"is_enabled"`
	SortOrder    int       `json:"sort_order"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToRoleResponse converts a domain Role to RoleResponse.
func ToRoleResponse(r *identity.Role) *RoleResponse {
	permissions := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		permissions = append(permissions, p.Code)
	}
	return &RoleResponse{
		ID:           r.ID,
		TheaterID:    r.TheaterID,
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsEnabled:    r.IsEnabled,
		SortOrder:    r.SortOrder,
		Permissions:  permissions,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// CreateTheaterRequest registers a theater canteen.
type CreateTheaterRequest struct {
	Code         string `json:"code" binding:"required,min=2,max=20"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactPhone string `json:"contact_phone" binding:"max=20"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	AlertEmail   string `json:"alert_email" binding:"omitempty,email"`
	Address      string `json:"address" binding:"max=500"`

	// When set, an ADMIN system role and the first account are seeded.
	AdminUsername string `json:"admin_username" binding:"omitempty,min=3,max=50"`
	AdminPassword string `json:"admin_password" binding:"omitempty,min=8,max=72"`
}

// UpdateTheaterRequest updates a theater's profile.
type UpdateTheaterRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=20"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	AlertEmail   *string `json:"alert_email" binding:"omitempty,email"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateTheaterConfigRequest updates the theater's operational settings.
type UpdateTheaterConfigRequest struct {
	Currency          *string `json:"currency" binding:"omitempty,len=3"`
	Timezone          *string `json:"timezone"`
	Locale            *string `json:"locale"`
	LowStockAlerts    *bool   `json:"low_stock_alerts"`
	ExpiryAlerts      *bool   `json:"expiry_alerts"`
	OrderNumberPrefix *string `json:"order_number_prefix" binding:"omitempty,max=10"`
}

// TheaterResponse represents a theater in API responses.
type TheaterResponse struct {
	ID           uuid.UUID              `json:"id"`
	Code         string                 `json:"code"`
	Name         string                 `json:"name"`
	Status       string                 `json:"status"`
	ContactName  string                 `json:"contact_name"`
	ContactPhone string                 `json:"contact_phone"`
	ContactEmail string                 `json:"contact_email"`
	AlertEmail   string                 `json:"alert_email"`
	Address      string                 `json:"address"`
	Notes        string                 `json:"notes"`
	Config       identity.TheaterConfig `json:"config"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Version      int                    `json:"version"`
}

// ToTheaterResponse converts a domain Theater to TheaterResponse.
func ToTheaterResponse(t *identity.Theater) *TheaterResponse {
	return &TheaterResponse{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       string(t.Status),
		ContactName:  t.ContactName,
		ContactPhone: t.ContactPhone,
		ContactEmail: t.ContactEmail,
		AlertEmail:   t.AlertEmail,
		Address:      t.Address,
		Notes:        t.Notes,
		Config:       t.Config,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}
