// Package ticket models customer-service tickets handled by CSR agents.
package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// Status represents where a ticket is in its lifecycle
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusEndorsed   Status = "Endorsed"
	StatusClosed     Status = "Closed"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusEndorsed, StatusClosed:
		return true
	}
	return false
}

// allowed status transitions
var transitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusEndorsed, StatusClosed},
	StatusInProgress: {StatusEndorsed, StatusClosed},
	StatusEndorsed:   {StatusInProgress, StatusClosed},
	StatusClosed:     {StatusOpen},
}

// CanTransitionTo reports whether s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Ticket is one customer concern
type Ticket struct {
	shared.VersionedEntity
	TicketNumber string
	ReferenceID  string
	CompanyName  string
	Channel      string
	Concern      string
	Status       Status
	ClosedAt     *time.Time
}

// NewTicket opens a ticket
func NewTicket(number, referenceID, companyName, channel, concern string) (*Ticket, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Ticket number cannot be empty")
	}
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if strings.TrimSpace(concern) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Concern cannot be empty")
	}
	return &Ticket{
		VersionedEntity: shared.NewVersionedEntity(),
		TicketNumber:    strings.TrimSpace(number),
		ReferenceID:     strings.TrimSpace(referenceID),
		CompanyName:     strings.TrimSpace(companyName),
		Channel:         strings.TrimSpace(channel),
		Concern:         strings.TrimSpace(concern),
		Status:          StatusOpen,
	}, nil
}

// ChangeStatus moves the ticket, stamping ClosedAt on close and clearing it on reopen
func (t *Ticket) ChangeStatus(next Status, at time.Time) error {
	if !next.IsValid() {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid ticket status: %s", next))
	}
	if !t.Status.CanTransitionTo(next) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot move ticket from %s to %s", t.Status, next))
	}
	t.Status = next
	if next == StatusClosed {
		t.ClosedAt = &at
	} else {
		t.ClosedAt = nil
	}
	t.Touch()
	return nil
}

// ResolutionTime returns how long a closed ticket took, false while open
func (t *Ticket) ResolutionTime() (time.Duration, bool) {
	if t.Status != StatusClosed || t.ClosedAt == nil {
		return 0, false
	}
	return t.ClosedAt.Sub(t.CreatedAt), true
}

// Filter narrows ticket listings
type Filter struct {
	shared.Filter
	ReferenceID string
	Channel     string
	Status      Status
	From        *time.Time
	To          *time.Time
}

// Repository persists tickets
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	FindAll(ctx context.Context, filter Filter) ([]Ticket, int64, error)
	FindForReport(ctx context.Context, filter Filter) ([]Ticket, error)
	Save(ctx context.Context, ticket *Ticket) error
	SaveWithLock(ctx context.Context, ticket *Ticket) error
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
