package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// Update updates an existing category
	Update(ctx context.Context, category *Category) error

	// Delete deletes a category by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindByCode finds a category by its code within the theater
	FindByCode(ctx context.Context, theaterID uuid.UUID, code string) (*Category, error)

	// FindAll returns all categories for the theater ordered by sort order
	FindAll(ctx context.Context, theaterID uuid.UUID) ([]*Category, error)

	// FindActive returns active categories for the theater ordered by sort order
	FindActive(ctx context.Context, theaterID uuid.UUID) ([]*Category, error)

	// ExistsByCode checks if a category code already exists within the theater
	ExistsByCode(ctx context.Context, theaterID uuid.UUID, code string) (bool, error)

	// CountProducts returns the number of products referencing the category
	CountProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
