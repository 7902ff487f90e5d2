package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/canteen/backend/internal/domain/identity"
	"github.com/canteen/backend/internal/domain/shared"
)

// TheaterService manages tenants. These operations are platform scoped
// and not bound to the caller's own theater.
type TheaterService struct {
	theaterRepo identity.TheaterRepository
	userRepo    identity.UserRepository
	roleRepo    identity.RoleRepository
	logger      *zap.Logger
}

func NewTheaterService(
	theaterRepo identity.TheaterRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *TheaterService {
	return &TheaterService{
		theaterRepo: theaterRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
		logger:      logger,
	}
}

// adminPermissions is the grant set of the seeded administrator role.
var adminPermissions = []string{
	"theater:read", "theater:write",
	"user:read", "user:write",
	"role:read", "role:write",
	"catalog:read", "catalog:write",
	"table:read", "table:write",
	"order:read", "order:write", "order:manage",
	"stock:read", "stock:write",
	"report:read", "report:export",
	"job:trigger",
}

// CreateTheater registers a new tenant and seeds its administrator
// role and account.
func (s *TheaterService) CreateTheater(ctx context.Context, req CreateTheaterRequest) (*TheaterResponse, error) {
	exists, err := s.theaterRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("THEATER_CODE_EXISTS", "A theater with this code already exists")
	}

	theater, err := identity.NewTheater(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.ContactPhone != "" || req.ContactEmail != "" {
		if err := theater.SetContact(req.ContactName, req.ContactPhone, req.ContactEmail); err != nil {
			return nil, err
		}
	}
	if req.AlertEmail != "" {
		if err := theater.SetAlertEmail(req.AlertEmail); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := theater.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.theaterRepo.Create(ctx, theater); err != nil {
		return nil, err
	}

	if req.AdminUsername != "" {
		if err := s.seedAdmin(ctx, theater.ID, req.AdminUsername, req.AdminPassword); err != nil {
			return nil, err
		}
	}

	s.logger.Info("theater created",
		zap.String("code", theater.Code),
		zap.String("theater_id", theater.ID.String()),
	)
	return ToTheaterResponse(theater), nil
}

// seedAdmin creates the ADMIN system role and the first account.
func (s *TheaterService) seedAdmin(ctx context.Context, theaterID uuid.UUID, username, password string) error {
	role, err := identity.NewSystemRole(theaterID, "ADMIN", "Administrator")
	if err != nil {
		return err
	}
	for _, code := range adminPermissions {
		if err := role.GrantPermissionByCode(code); err != nil {
			return err
		}
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return err
	}
	if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
		return err
	}

	admin, err := identity.NewActiveUser(theaterID, username, password)
	if err != nil {
		return err
	}
	admin.ForcePasswordChange()
	if err := admin.SetRoles([]uuid.UUID{role.ID}); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	return s.userRepo.SaveUserRoles(ctx, admin)
}

// GetTheater returns a single tenant.
func (s *TheaterService) GetTheater(ctx context.Context, theaterID uuid.UUID) (*TheaterResponse, error) {
	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}
	return ToTheaterResponse(theater), nil
}

// ListTheaters returns a page of tenants matching the filter.
func (s *TheaterService) ListTheaters(ctx context.Context, filter identity.TheaterFilter) ([]*TheaterResponse, int64, error) {
	theaters, total, err := s.theaterRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]*TheaterResponse, len(theaters))
	for i, theater := range theaters {
		responses[i] = ToTheaterResponse(theater)
	}
	return responses, total, nil
}

// UpdateTheater applies a partial update to the tenant profile.
func (s *TheaterService) UpdateTheater(ctx context.Context, theaterID uuid.UUID, req UpdateTheaterRequest) (*TheaterResponse, error) {
	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := theater.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.ContactPhone != nil || req.ContactEmail != nil {
		contactName := theater.ContactName
		contactPhone := theater.ContactPhone
		contactEmail := theater.ContactEmail
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		if req.ContactEmail != nil {
			contactEmail = *req.ContactEmail
		}
		if err := theater.SetContact(contactName, contactPhone, contactEmail); err != nil {
			return nil, err
		}
	}
	if req.AlertEmail != nil {
		if err := theater.SetAlertEmail(*req.AlertEmail); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := theater.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		theater.SetNotes(*req.Notes)
	}

	if err := s.theaterRepo.Update(ctx, theater); err != nil {
		return nil, err
	}
	return ToTheaterResponse(theater), nil
}

// UpdateTheaterConfig applies a partial update to the tenant settings.
func (s *TheaterService) UpdateTheaterConfig(ctx context.Context, theaterID uuid.UUID, req UpdateTheaterConfigRequest) (*TheaterResponse, error) {
	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	config := theater.Config
	if req.Currency != nil {
		config.Currency = *req.Currency
	}
	if req.Timezone != nil {
		config.Timezone = *req.Timezone
	}
	if req.Locale != nil {
		config.Locale = *req.Locale
	}
	if req.LowStockAlerts != nil {
		config.LowStockAlerts = *req.LowStockAlerts
	}
	if req.ExpiryAlerts != nil {
		config.ExpiryAlerts = *req.ExpiryAlerts
	}
	if req.OrderNumberPrefix != nil {
		config.OrderNumberPrefix = *req.OrderNumberPrefix
	}
	if err := theater.UpdateConfig(config); err != nil {
		return nil, err
	}

	if err := s.theaterRepo.Update(ctx, theater); err != nil {
		return nil, err
	}
	return ToTheaterResponse(theater), nil
}

// ActivateTheater opens the tenant for logins and ordering.
func (s *TheaterService) ActivateTheater(ctx context.Context, theaterID uuid.UUID) error {
	return s.transition(ctx, theaterID, (*identity.Theater).Activate)
}

// DeactivateTheater closes the tenant permanently.
func (s *TheaterService) DeactivateTheater(ctx context.Context, theaterID uuid.UUID) error {
	return s.transition(ctx, theaterID, (*identity.Theater).Deactivate)
}

// SuspendTheater temporarily blocks the tenant.
func (s *TheaterService) SuspendTheater(ctx context.Context, theaterID uuid.UUID) error {
	return s.transition(ctx, theaterID, (*identity.Theater).Suspend)
}

// DeleteTheater removes an empty tenant.
func (s *TheaterService) DeleteTheater(ctx context.Context, theaterID uuid.UUID) error {
	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return err
	}
	if err := s.theaterRepo.Delete(ctx, theater.ID); err != nil {
		return err
	}
	s.logger.Info("theater deleted", zap.String("code", theater.Code))
	return nil
}

func (s *TheaterService) transition(ctx context.Context, theaterID uuid.UUID, op func(*identity.Theater) error) error {
	theater, err := s.theaterRepo.FindByID(ctx, theaterID)
	if err != nil {
		return err
	}
	if err := op(theater); err != nil {
		return err
	}
	return s.theaterRepo.Update(ctx, theater)
}
