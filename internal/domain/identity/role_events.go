package identity

import (
	"github.com/canteen/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeRole = "Role"

// Event type constants
const (
	EventTypeRoleCreated           = "RoleCreated"
	EventTypeRoleUpdated           = "RoleUpdated"
	EventTypeRolePermissionGranted = "RolePermissionGranted"
	EventTypeRolePermissionRevoked = "RolePermissionRevoked"
	EventTypeRoleDeleted           = "RoleDeleted"
)

// RoleCreatedEvent is published when a new role is created
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewRoleCreatedEvent creates a new RoleCreatedEvent
func NewRoleCreatedEvent(role *Role) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCreated, AggregateTypeRole, role.ID, role.TheaterID),
		Code:            role.Code,
		Name:            role.Name,
	}
}

// RoleUpdatedEvent is published when a role is updated
type RoleUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewRoleUpdatedEvent creates a new RoleUpdatedEvent
func NewRoleUpdatedEvent(role *Role) *RoleUpdatedEvent {
	return &RoleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleUpdated, AggregateTypeRole, role.ID, role.TheaterID),
		Code:            role.Code,
		Name:            role.Name,
	}
}

// RolePermissionGrantedEvent is published when a permission is granted
type RolePermissionGrantedEvent struct {
	shared.BaseDomainEvent
	Code       string `json:"code"`
	Permission string `json:"permission"`
}

// NewRolePermissionGrantedEvent creates a new RolePermissionGrantedEvent
func NewRolePermissionGrantedEvent(role *Role, perm Permission) *RolePermissionGrantedEvent {
	return &RolePermissionGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRolePermissionGranted, AggregateTypeRole, role.ID, role.TheaterID),
		Code:            role.Code,
		Permission:      perm.Code,
	}
}

// RolePermissionRevokedEvent is published when a permission is revoked
type RolePermissionRevokedEvent struct {
	shared.BaseDomainEvent
	Code       string `json:"code"`
	Permission string `json:"permission"`
}

// NewRolePermissionRevokedEvent creates a new RolePermissionRevokedEvent
func NewRolePermissionRevokedEvent(role *Role, perm Permission) *RolePermissionRevokedEvent {
	return &RolePermissionRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRolePermissionRevoked, AggregateTypeRole, role.ID, role.TheaterID),
		Code:            role.Code,
		Permission:      perm.Code,
	}
}

// RoleDeletedEvent is published when a role is deleted
type RoleDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewRoleDeletedEvent creates a new RoleDeletedEvent
func NewRoleDeletedEvent(role *Role) *RoleDeletedEvent {
	return &RoleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleDeleted, AggregateTypeRole, role.ID, role.TheaterID),
		Code:            role.Code,
	}
}
