package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the identity and timestamps shared by every record
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VersionedEntity is a record guarded by optimistic locking.
// Every mutation goes through Touch so that the version moves with UpdatedAt.
type VersionedEntity struct {
	BaseEntity
	Version int
}

// NewVersionedEntity creates a versioned entity at version 1
func NewVersionedEntity() VersionedEntity {
	return VersionedEntity{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// GetVersion returns the version used for optimistic locking
func (e *VersionedEntity) GetVersion() int {
	return e.Version
}

// Touch bumps the update timestamp and the version
func (e *VersionedEntity) Touch() {
	e.BaseEntity.Touch()
	e.Version++
}
