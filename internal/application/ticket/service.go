// Package ticket serves the customer-service ticket desk.
package ticket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/domain/ticket"
)

// ListQuery filters the ticket listing
type ListQuery struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search      string     `form:"search"`
	ReferenceID string     `form:"referenceid"`
	Channel     string     `form:"channel"`
	Status      string     `form:"status"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateRequest opens a ticket. A number is generated when none is given.
type CreateRequest struct {
	TicketNumber string `json:"ticketnumber" binding:"max=50"`
	ReferenceID  string `json:"referenceid" binding:"omitempty,referenceid"`
	CompanyName  string `json:"companyname" binding:"max=255"`
	Channel      string `json:"channel" binding:"max=50"`
	Concern      string `json:"concern" binding:"required"`
}

// StatusRequest moves a ticket through its lifecycle
type StatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version int    `json:"version"`
}

// Response is the API view of a ticket
type Response struct {
	ID              uuid.UUID  `json:"id"`
	TicketNumber    string     `json:"ticketnumber"`
	ReferenceID     string     `json:"referenceid"`
	CompanyName     string     `json:"companyname"`
	Channel         string     `json:"channel"`
	Concern         string     `json:"concern"`
	Status          string     `json:"status"`
	ClosedAt        *time.Time `json:"closedat,omitempty"`
	ResolutionHours *float64   `json:"resolutionHours,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts a domain ticket
func ToResponse(t *ticket.Ticket) Response {
	r := Response{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		ReferenceID:  t.ReferenceID,
		CompanyName:  t.CompanyName,
		Channel:      t.Channel,
		Concern:      t.Concern,
		Status:       string(t.Status),
		ClosedAt:     t.ClosedAt,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
	}
	if d, ok := t.ResolutionTime(); ok {
		hours := d.Hours()
		r.ResolutionHours = &hours
	}
	return r
}

// ReportInvalidator drops cached dashboards after tickets change
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service handles ticket operations
type Service struct {
	repo        ticket.Repository
	invalidator ReportInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a ticket Service. invalidator may be nil.
func NewService(repo ticket.Repository, invalidator ReportInvalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, invalidator: invalidator, logger: logger, now: time.Now}
}

// List returns one page of tickets
func (s *Service) List(ctx context.Context, q ListQuery) (shared.Paginated[Response], error) {
	filter := ticket.Filter{
		Filter: shared.Filter{
			Page:     q.Page,
			PageSize: q.PageSize,
			OrderBy:  q.OrderBy,
			OrderDir: q.OrderDir,
			Search:   q.Search,
		}.Normalize(),
		ReferenceID: q.ReferenceID,
		Channel:     q.Channel,
		Status:      ticket.Status(q.Status),
		From:        q.From,
		To:          q.To,
	}
	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[Response]{}, err
	}
	out := make([]Response, len(items))
	for i := range items {
		out[i] = ToResponse(&items[i])
	}
	return shared.NewPaginated(out, total, filter.Page, filter.PageSize), nil
}

// Get returns one ticket
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToResponse(t)
	return &response, nil
}

// Create opens a ticket owned by the caller unless another CSR is named
func (s *Service) Create(ctx context.Context, actor string, req CreateRequest) (*Response, error) {
	number := strings.TrimSpace(req.TicketNumber)
	if number == "" {
		number = s.nextNumber()
	}
	exists, err := s.repo.ExistsByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Ticket number already exists")
	}

	owner := strings.TrimSpace(req.ReferenceID)
	if owner == "" {
		owner = actor
	}
	t, err := ticket.NewTicket(number, owner, req.CompanyName, req.Channel, req.Concern)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToResponse(t)
	return &response, nil
}

// ChangeStatus moves a ticket. The save is rejected when someone else
// changed the ticket since the given version was read.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req StatusRequest) (*Response, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 && req.Version != t.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	from := t.Status
	if err := t.ChangeStatus(ticket.Status(req.Status), s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Ticket status changed",
		zap.String("ticketnumber", t.TicketNumber),
		zap.String("from", string(from)),
		zap.String("to", string(t.Status)),
	)
	s.invalidate(ctx)

	response := ToResponse(t)
	return &response, nil
}

func (s *Service) nextNumber() string {
	return fmt.Sprintf("TKT-%s-%s", s.now().Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate report cache", zap.Error(err))
	}
}
