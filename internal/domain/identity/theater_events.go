package identity

import (
	"github.com/canteen/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTheater = "Theater"

// Event type constants
const (
	EventTypeTheaterCreated       = "TheaterCreated"
	EventTypeTheaterUpdated       = "TheaterUpdated"
	EventTypeTheaterStatusChanged = "TheaterStatusChanged"
	EventTypeTheaterDeleted       = "TheaterDeleted"
)

// TheaterCreatedEvent is published when a new theater is created
type TheaterCreatedEvent struct {
	shared.BaseDomainEvent
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Status TheaterStatus `json:"status"`
}

// NewTheaterCreatedEvent creates a new TheaterCreatedEvent
func NewTheaterCreatedEvent(theater *Theater) *TheaterCreatedEvent {
	return &TheaterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTheaterCreated, AggregateTypeTheater, theater.ID, theater.ID),
		Code:            theater.Code,
		Name:            theater.Name,
		Status:          theater.Status,
	}
}

// TheaterUpdatedEvent is published when a theater is updated
type TheaterUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTheaterUpdatedEvent creates a new TheaterUpdatedEvent
func NewTheaterUpdatedEvent(theater *Theater) *TheaterUpdatedEvent {
	return &TheaterUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTheaterUpdated, AggregateTypeTheater, theater.ID, theater.ID),
		Code:            theater.Code,
		Name:            theater.Name,
	}
}

// TheaterStatusChangedEvent is published when a theater's status changes
type TheaterStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string        `json:"code"`
	OldStatus TheaterStatus `json:"old_status"`
	NewStatus TheaterStatus `json:"new_status"`
}

// NewTheaterStatusChangedEvent creates a new TheaterStatusChangedEvent
func NewTheaterStatusChangedEvent(theater *Theater, oldStatus, newStatus TheaterStatus) *TheaterStatusChangedEvent {
	return &TheaterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTheaterStatusChanged, AggregateTypeTheater, theater.ID, theater.ID),
		Code:            theater.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TheaterDeletedEvent is published when a theater is deleted
type TheaterDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTheaterDeletedEvent creates a new TheaterDeletedEvent
func NewTheaterDeletedEvent(theater *Theater) *TheaterDeletedEvent {
	return &TheaterDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTheaterDeleted, AggregateTypeTheater, theater.ID, theater.ID),
		Code:            theater.Code,
		Name:            theater.Name,
	}
}
