package ordering

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DiningTableStatus represents the status of a dining table
type DiningTableStatus string

const (
	DiningTableStatusActive   DiningTableStatus = "active"
	DiningTableStatusInactive DiningTableStatus = "inactive"
)

// DiningTable represents a seat or table in the theater foyer that customers
// order from by scanning its QR code. The QRToken is an opaque value encoded
// into the QR image; rotating it invalidates previously printed codes.
type DiningTable struct {
	shared.TheaterAggregateRoot
	Number   string            `gorm:"type:varchar(20);not null;uniqueIndex:idx_table_theater_number,priority:2"`
	Zone     string            `gorm:"type:varchar(50)"` // e.g., "Foyer", "Balcony", "Row A"
	Seats    int               `gorm:"not null;default:0"`
	QRToken  string            `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status   DiningTableStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Comments string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DiningTable) TableName() string {
	return "dining_tables"
}

// NewDiningTable creates a new dining table with a fresh QR token
func NewDiningTable(theaterID uuid.UUID, number, zone string, seats int) (*DiningTable, error) {
	if err := validateTableNumber(number); err != nil {
		return nil, err
	}
	if seats < 0 {
		return nil, shared.NewDomainError("INVALID_SEATS", "Seat count cannot be negative")
	}
	if zone != "" && len(zone) > 50 {
		return nil, shared.NewDomainError("INVALID_ZONE", "Zone cannot exceed 50 characters")
	}

	token, err := newQRToken()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate table token")
	}

	table := &DiningTable{
		TheaterAggregateRoot: shared.NewTheaterAggregateRoot(theaterID),
		Number:               strings.TrimSpace(number),
		Zone:                 strings.TrimSpace(zone),
		Seats:                seats,
		QRToken:              token,
		Status:               DiningTableStatusActive,
	}

	table.AddDomainEvent(NewDiningTableCreatedEvent(table))

	return table, nil
}

// Update updates the table's basic information
func (t *DiningTable) Update(number, zone string, seats int) error {
	if err := validateTableNumber(number); err != nil {
		return err
	}
	if seats < 0 {
		return shared.NewDomainError("INVALID_SEATS", "Seat count cannot be negative")
	}
	if zone != "" && len(zone) > 50 {
		return shared.NewDomainError("INVALID_ZONE", "Zone cannot exceed 50 characters")
	}

	t.Number = strings.TrimSpace(number)
	t.Zone = strings.TrimSpace(zone)
	t.Seats = seats
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// RotateQRToken replaces the QR token, invalidating printed codes
func (t *DiningTable) RotateQRToken() error {
	token, err := newQRToken()
	if err != nil {
		return shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate table token")
	}

	t.QRToken = token
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewDiningTableTokenRotatedEvent(t))

	return nil
}

// Activate activates the table
func (t *DiningTable) Activate() error {
	if t.Status == DiningTableStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Table is already active")
	}

	t.Status = DiningTableStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Deactivate deactivates the table; its QR code stops accepting orders
func (t *DiningTable) Deactivate() error {
	if t.Status == DiningTableStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Table is already inactive")
	}

	t.Status = DiningTableStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsActive returns true if the table accepts orders
func (t *DiningTable) IsActive() bool {
	return t.Status == DiningTableStatusActive
}

// SetComments sets operator comments for the table
func (t *DiningTable) SetComments(comments string) error {
	if len(comments) > 500 {
		return shared.NewDomainError("INVALID_COMMENTS", "Comments cannot exceed 500 characters")
	}

	t.Comments = comments
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

func newQRToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func validateTableNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Table number cannot be empty")
	}
	if len(number) > 20 {
		return shared.NewDomainError("INVALID_NUMBER", "Table number cannot exceed 20 characters")
	}
	return nil
}
