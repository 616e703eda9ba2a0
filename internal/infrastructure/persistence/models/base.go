package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// VersionedModel extends BaseModel with the optimistic locking version.
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainVersioned populates VersionedModel from a domain VersionedEntity
func (m *VersionedModel) FromDomainVersioned(e shared.VersionedEntity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Version = e.Version
}

// ToVersioned converts VersionedModel back to a domain VersionedEntity
func (m *VersionedModel) ToVersioned() shared.VersionedEntity {
	return shared.VersionedEntity{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}
