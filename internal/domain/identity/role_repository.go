package identity

import (
	"context"

	"github.com/google/uuid"
)

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// Create creates a new role
	Create(ctx context.Context, role *Role) error

	// Update updates an existing role
	Update(ctx context.Context, role *Role) error

	// Delete deletes a role by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a role by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)

	// FindByCode finds a role by its code within the theater
	FindByCode(ctx context.Context, theaterID uuid.UUID, code string) (*Role, error)

	// FindByIDs finds roles by a list of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)

	// FindAll returns all roles for the theater
	FindAll(ctx context.Context, theaterID uuid.UUID) ([]*Role, error)

	// ExistsByCode checks if a role code already exists within the theater
	ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error)

	// SavePermissions saves the role's permissions (replaces existing)
	SavePermissions(ctx context.Context, role *Role) error

	// LoadPermissions loads the role's permissions from the database
	LoadPermissions(ctx context.Context, role *Role) error
}
