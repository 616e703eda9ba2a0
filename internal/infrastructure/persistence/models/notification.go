package models

import (
	"time"

	"github.com/sfa/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications.
type NotificationModel struct {
	BaseModel
	ReferenceID string              `gorm:"type:varchar(50);not null;index"`
	Type        string              `gorm:"type:varchar(50)"`
	Message     string              `gorm:"type:text;not null"`
	Status      notification.Status `gorm:"type:varchar(10);not null;default:'unread';index"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:  m.BaseModel.ToDomain(),
		ReferenceID: m.ReferenceID,
		Type:        m.Type,
		Message:     m.Message,
		Status:      m.Status,
		ReadAt:      m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.ReferenceID = n.ReferenceID
	m.Type = n.Type
	m.Message = n.Message
	m.Status = n.Status
	m.ReadAt = n.ReadAt
}
