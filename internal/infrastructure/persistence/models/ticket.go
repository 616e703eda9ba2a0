package models

import (
	"time"

	"github.com/sfa/backend/internal/domain/ticket"
)

// TicketModel is the persistence model for customer tickets.
type TicketModel struct {
	VersionedModel
	TicketNumber string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	ReferenceID  string        `gorm:"type:varchar(50);not null;index"`
	CompanyName  string        `gorm:"type:varchar(255)"`
	Channel      string        `gorm:"type:varchar(50);index"`
	Concern      string        `gorm:"type:text;not null"`
	Status       ticket.Status `gorm:"type:varchar(30);not null;default:'Open'"`
	ClosedAt     *time.Time
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "tickets"
}

// ToDomain converts the persistence model to a domain Ticket
func (m *TicketModel) ToDomain() *ticket.Ticket {
	return &ticket.Ticket{
		VersionedEntity: m.ToVersioned(),
		TicketNumber:    m.TicketNumber,
		ReferenceID:     m.ReferenceID,
		CompanyName:     m.CompanyName,
		Channel:         m.Channel,
		Concern:         m.Concern,
		Status:          m.Status,
		ClosedAt:        m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain Ticket
func (m *TicketModel) FromDomain(t *ticket.Ticket) {
	m.FromDomainVersioned(t.VersionedEntity)
	m.TicketNumber = t.TicketNumber
	m.ReferenceID = t.ReferenceID
	m.CompanyName = t.CompanyName
	m.Channel = t.Channel
	m.Concern = t.Concern
	m.Status = t.Status
	m.ClosedAt = t.ClosedAt
}
