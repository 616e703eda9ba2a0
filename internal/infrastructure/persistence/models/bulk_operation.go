package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/bulk"
)

// BulkOperationModel is the persistence model for the bulk Operation audit record.
type BulkOperationModel struct {
	VersionedModel
	Action       bulk.Action `gorm:"type:varchar(20);not null;index"`
	Target       bulk.Target `gorm:"type:varchar(20);not null;index"`
	Actor        string      `gorm:"type:varchar(50);not null;index"`
	RecordIDs    []uuid.UUID `gorm:"type:jsonb;serializer:json"`
	Requested    int         `gorm:"not null;default:0"`
	Affected     int         `gorm:"not null;default:0"`
	Status       bulk.Status `gorm:"type:varchar(20);not null;default:'pending'"`
	ErrorMessage string      `gorm:"type:text"`
	ErrorDetails string      `gorm:"type:jsonb;default:'[]'"`
	StartedAt    time.Time   `gorm:"not null"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (BulkOperationModel) TableName() string {
	return "bulk_operations"
}

// ToDomain converts the persistence model to a domain Operation
func (m *BulkOperationModel) ToDomain() *bulk.Operation {
	op := &bulk.Operation{
		VersionedEntity: m.ToVersioned(),
		Action:          m.Action,
		Target:          m.Target,
		Actor:           m.Actor,
		RecordIDs:       m.RecordIDs,
		Requested:       m.Requested,
		Affected:        m.Affected,
		Status:          m.Status,
		ErrorMessage:    m.ErrorMessage,
		RowErrors:       make([]bulk.RowError, 0),
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
	}
	if op.RecordIDs == nil {
		op.RecordIDs = make([]uuid.UUID, 0)
	}
	if m.ErrorDetails != "" {
		_ = op.SetRowErrorsFromJSON(m.ErrorDetails)
	}
	return op
}

// FromDomain populates the persistence model from a domain Operation
func (m *BulkOperationModel) FromDomain(op *bulk.Operation) {
	m.FromDomainVersioned(op.VersionedEntity)
	m.Action = op.Action
	m.Target = op.Target
	m.Actor = op.Actor
	m.RecordIDs = op.RecordIDs
	m.Requested = op.Requested
	m.Affected = op.Affected
	m.Status = op.Status
	m.ErrorMessage = op.ErrorMessage
	m.StartedAt = op.StartedAt
	m.CompletedAt = op.CompletedAt

	if errorJSON, err := op.RowErrorsJSON(); err == nil {
		m.ErrorDetails = errorJSON
	} else {
		m.ErrorDetails = "[]"
	}
}

// BulkOperationModelFromDomain creates a new persistence model from a domain Operation
func BulkOperationModelFromDomain(op *bulk.Operation) *BulkOperationModel {
	m := &BulkOperationModel{}
	m.FromDomain(op)
	return m
}
