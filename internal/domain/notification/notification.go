// Package notification holds in-app notifications addressed to an agent.
// Delivery over other channels happens elsewhere.
package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// Status is read or unread
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Notification is one message for one recipient
type Notification struct {
	shared.BaseEntity
	ReferenceID string
	Type        string
	Message     string
	Status      Status
	ReadAt      *time.Time
}

// NewNotification creates an unread notification
func NewNotification(referenceID, typ, message string) (*Notification, error) {
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Recipient reference ID cannot be empty")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Message cannot be empty")
	}
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		ReferenceID: referenceID,
		Type:        typ,
		Message:     message,
		Status:      StatusUnread,
	}, nil
}

// MarkRead marks the notification read. Reading twice keeps the first timestamp.
func (n *Notification) MarkRead(at time.Time) {
	if n.Status == StatusRead {
		return
	}
	n.Status = StatusRead
	n.ReadAt = &at
	n.Touch()
}

// Filter narrows notification listings
type Filter struct {
	shared.Filter
	ReferenceID string
	Status      Status
}

// Repository persists notifications
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, filter Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, referenceID string) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, referenceID string, at time.Time) (int64, error)
}
