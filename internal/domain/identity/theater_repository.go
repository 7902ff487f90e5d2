package identity

import (
	"context"

	"github.com/google/uuid"
)

// TheaterRepository defines the interface for theater persistence
type TheaterRepository interface {
	// Create creates a new theater
	Create(ctx context.Context, theater *Theater) error

	// Update updates an existing theater
	Update(ctx context.Context, theater *Theater) error

	// Delete deletes a theater by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a theater by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Theater, error)

	// FindByCode finds a theater by its unique code
	FindByCode(ctx context.Context, code string) (*Theater, error)

	// FindAll returns all theaters with pagination
	FindAll(ctx context.Context, filter TheaterFilter) ([]*Theater, int64, error)

	// FindActive returns all active theaters, used by the alert scheduler
	FindActive(ctx context.Context) ([]*Theater, error)

	// ExistsByCode checks if a theater code already exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// TheaterFilter contains filter options for querying theaters
type TheaterFilter struct {
	// Search keyword for code or name
	Keyword string

	// Filter by status
	Status *TheaterStatus

	// Pagination
	Page     int
	PageSize int
}

// NewTheaterFilter creates a new TheaterFilter with default values
func NewTheaterFilter() TheaterFilter {
	return TheaterFilter{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for pagination
func (f TheaterFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f TheaterFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
