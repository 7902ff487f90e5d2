package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	MarkVersionSaved()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version       int           `gorm:"not null;default:1"`
	versionBumped bool          `gorm:"-"`
	domainEvents  []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version number. It bumps at most once per
// load-save cycle, so an update command that touches several fields
// still produces a single version step and repositories can guard
// writes with the previous version.
func (a *BaseAggregateRoot) IncrementVersion() {
	if a.versionBumped {
		return
	}
	a.Version++
	a.versionBumped = true
}

// MarkVersionSaved re-arms version bumping after a successful write.
// Repositories call this so a reused in-memory aggregate behaves like
// a freshly loaded one.
func (a *BaseAggregateRoot) MarkVersionSaved() {
	a.versionBumped = false
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
		// Setters invoked during construction must not bump past 1.
		versionBumped: true,
		domainEvents:  make([]DomainEvent, 0),
	}
}

// TheaterAggregateRoot extends BaseAggregateRoot with theater (tenant) scoping.
// Every aggregate in the canteen system belongs to exactly one theater.
type TheaterAggregateRoot struct {
	BaseAggregateRoot
	TheaterID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewTheaterAggregateRoot creates a new theater-scoped aggregate root
func NewTheaterAggregateRoot(theaterID uuid.UUID) TheaterAggregateRoot {
	return TheaterAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TheaterID:         theaterID,
	}
}
