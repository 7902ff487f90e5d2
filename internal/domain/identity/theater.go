package identity

import (
	"strings"
	"time"

	"github.com/canteen/backend/internal/domain/shared"
)

// TheaterStatus represents the status of a theater
type TheaterStatus string

const (
	TheaterStatusActive    TheaterStatus = "active"
	TheaterStatusInactive  TheaterStatus = "inactive"
	TheaterStatusSuspended TheaterStatus = "suspended" // Suspended by the operator
)

// TheaterConfig holds configurable canteen settings for a theater
type TheaterConfig struct {
	Currency          string `json:"currency"`            // Currency code for menu prices
	Timezone          string `json:"timezone"`            // Theater timezone, used by scheduled jobs
	Locale            string `json:"locale"`              // Locale for customer-facing text
	LowStockAlerts    bool   `json:"low_stock_alerts"`    // Daily low-stock email enabled
	ExpiryAlerts      bool   `json:"expiry_alerts"`       // Daily expiry email enabled
	OrderNumberPrefix string `json:"order_number_prefix"` // Prefix for generated order numbers
}

// DefaultTheaterConfig returns the default configuration for a new theater
func DefaultTheaterConfig() TheaterConfig {
	return TheaterConfig{
		Currency:          "EUR",
		Timezone:          "Europe/Berlin",
		Locale:            "en-US",
		LowStockAlerts:    true,
		ExpiryAlerts:      true,
		OrderNumberPrefix: "ORD",
	}
}

// Theater represents one theater location in the multi-theater canteen system.
// Every user, product, order and stock document belongs to exactly one theater.
type Theater struct {
	shared.BaseAggregateRoot
	Code         string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Status       TheaterStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string        `gorm:"type:varchar(100)"`
	ContactPhone string        `gorm:"type:varchar(50)"`
	ContactEmail string        `gorm:"type:varchar(200)"`
	AlertEmail   string        `gorm:"type:varchar(200)"` // Stock alert recipient, falls back to ContactEmail
	Address      string        `gorm:"type:text"`
	Config       TheaterConfig `gorm:"embedded;embeddedPrefix:config_"`
	Notes        string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Theater) TableName() string {
	return "theaters"
}

// NewTheater creates a new theater with required fields
func NewTheater(code, name string) (*Theater, error) {
	if err := validateTheaterCode(code); err != nil {
		return nil, err
	}
	if err := validateTheaterName(name); err != nil {
		return nil, err
	}

	theater := &Theater{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TheaterStatusActive,
		Config:            DefaultTheaterConfig(),
	}

	theater.AddDomainEvent(NewTheaterCreatedEvent(theater))

	return theater, nil
}

// Update updates the theater's basic information
func (t *Theater) Update(name string) error {
	if err := validateTheaterName(name); err != nil {
		return err
	}

	t.Name = name
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTheaterUpdatedEvent(t))

	return nil
}

// SetContact sets the theater's contact information
func (t *Theater) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetAlertEmail sets a dedicated recipient for stock alert mails
func (t *Theater) SetAlertEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	t.AlertEmail = email
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// AlertRecipient returns the address stock alerts should be sent to,
// or "" when the theater has no usable address
func (t *Theater) AlertRecipient() string {
	if t.AlertEmail != "" {
		return t.AlertEmail
	}
	return t.ContactEmail
}

// SetAddress sets the theater's address
func (t *Theater) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	t.Address = address
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// UpdateConfig updates the theater's canteen configuration
func (t *Theater) UpdateConfig(config TheaterConfig) error {
	if config.Timezone != "" {
		if _, err := time.LoadLocation(config.Timezone); err != nil {
			return shared.NewDomainError("INVALID_TIMEZONE", "Unknown timezone "+config.Timezone)
		}
	}
	if config.OrderNumberPrefix == "" {
		config.OrderNumberPrefix = "ORD"
	}

	t.Config = config
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetNotes sets the theater's notes
func (t *Theater) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Activate activates the theater
func (t *Theater) Activate() error {
	if t.Status == TheaterStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Theater is already active")
	}

	oldStatus := t.Status
	t.Status = TheaterStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTheaterStatusChangedEvent(t, oldStatus, TheaterStatusActive))

	return nil
}

// Deactivate deactivates the theater
func (t *Theater) Deactivate() error {
	if t.Status == TheaterStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Theater is already inactive")
	}

	oldStatus := t.Status
	t.Status = TheaterStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTheaterStatusChangedEvent(t, oldStatus, TheaterStatusInactive))

	return nil
}

// Suspend suspends the theater
func (t *Theater) Suspend() error {
	if t.Status == TheaterStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Theater is already suspended")
	}

	oldStatus := t.Status
	t.Status = TheaterStatusSuspended
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	t.AddDomainEvent(NewTheaterStatusChangedEvent(t, oldStatus, TheaterStatusSuspended))

	return nil
}

// IsActive returns true if the theater is active
func (t *Theater) IsActive() bool {
	return t.Status == TheaterStatusActive
}

// Location returns the theater's timezone location, falling back to UTC
func (t *Theater) Location() *time.Location {
	if t.Config.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Config.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validation functions

func validateTheaterCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Theater code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Theater code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Theater code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateTheaterName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Theater name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Theater name cannot exceed 200 characters")
	}
	return nil
}
